package attribution

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radiusdt/roas-attribution/internal/models"
	"github.com/radiusdt/roas-attribution/internal/storage"
)

// Correlator retrieves the advertising events recorded against a
// customer's IP address.
type Correlator struct {
	store  storage.AdEventStore
	logger *zap.Logger
}

// NewCorrelator creates an event correlator backed by the given store.
func NewCorrelator(store storage.AdEventStore, logger *zap.Logger) *Correlator {
	return &Correlator{store: store, logger: logger}
}

// Events returns all events matching the customer's IP in either
// address family, concatenated IPv4 first. The two lookups are
// independent and run concurrently. No matching events is a valid
// empty result.
func (c *Correlator) Events(ctx context.Context, customer models.Customer) ([]models.AdEvent, error) {
	if customer.RoasUserID == "" {
		return nil, missingArg("events.get", "roas_user_id")
	}
	if customer.IPAddress == "" {
		return nil, missingArg("events.get", "ip")
	}

	var v4, v6 []models.AdEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		v4, err = c.store.EventsByIPv4(gctx, customer.RoasUserID, customer.IPAddress)
		return err
	})
	g.Go(func() error {
		var err error
		v6, err = c.store.EventsByIPv6(gctx, customer.RoasUserID, customer.IPAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("events correlated",
		zap.String("ip", customer.IPAddress),
		zap.Int("ipv4", len(v4)),
		zap.Int("ipv6", len(v6)),
	)

	return append(v4, v6...), nil
}
