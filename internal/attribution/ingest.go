package attribution

import (
	"context"

	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/models"
	"github.com/radiusdt/roas-attribution/internal/storage"
	"github.com/radiusdt/roas-attribution/internal/timeutil"
)

// actionBuyProduct is the cart action kind that represents a completed
// purchase; every other action kind is ignored by attribution.
const actionBuyProduct = "buy_product"

// Ingestor retrieves raw purchase actions for a user and day and
// flattens completed purchases into Orders.
type Ingestor struct {
	store    storage.OrderStore
	timezone string
	logger   *zap.Logger
}

// NewIngestor creates an order ingestor. timezone names the location
// used to resolve calendar dates into day windows.
func NewIngestor(store storage.OrderStore, timezone string, logger *zap.Logger) *Ingestor {
	return &Ingestor{store: store, timezone: timezone, logger: logger}
}

// Orders returns all completed purchases for the user on the given
// date. No purchases is a valid empty result, not an error.
func (in *Ingestor) Orders(ctx context.Context, userID, date string) ([]models.Order, error) {
	if userID == "" {
		return nil, missingArg("orders.get", "user_id")
	}
	if date == "" {
		return nil, missingArg("orders.get", "date")
	}

	window, err := timeutil.DayWindow(date, in.timezone)
	if err != nil {
		return nil, err
	}

	actions, err := in.store.ActionsInWindow(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(actions))
	for _, a := range actions {
		if a.Action != actionBuyProduct {
			continue
		}
		orders = append(orders, flattenAction(a))
	}

	in.logger.Debug("orders ingested",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.Int("actions", len(actions)),
		zap.Int("orders", len(orders)),
	)

	return orders, nil
}

// flattenAction merges the embedded lead fields, the action envelope
// and the transaction details into one Order. Action-level fields win
// over lead fields where both are set.
func flattenAction(a models.Action) models.Order {
	td := a.ActionDetails.TransactionDetails

	email := a.Email
	if email == "" {
		email = a.Lead.Email
	}
	ip := a.IP
	if ip == "" {
		ip = a.Lead.IP
	}
	firstName := a.FirstName
	if firstName == "" {
		firstName = a.Lead.FirstName
	}
	lastName := a.LastName
	if lastName == "" {
		lastName = a.Lead.LastName
	}

	return models.Order{
		TransactionID:          td.TransactionID,
		Email:                  email,
		IP:                     ip,
		RoasUserID:             a.RoasUserID,
		FirstName:              firstName,
		LastName:               lastName,
		CreatedAtUnixTimestamp: a.CreatedAtUnixTimestamp,
		LeadIP:                 td.LeadIP,
		LeadEmail:              td.LeadEmail,
		GdprLeadStatusIP:       td.GdprLeadStatusIP,
		BuyerEmail:             td.BuyerEmail,
		Price:                  td.Price,
		ProductName:            td.ProductName,
		TransactionAmount:      td.TransactionAmount,
		TransactionBaseAmount:  td.TransactionBaseAmount,
		TransactionFullAmount:  td.TransactionFullAmount,
		TransactionQuantity:    td.TransactionQuantity,
	}
}
