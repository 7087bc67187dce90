package attribution

import (
	"strconv"
	"strings"

	"github.com/radiusdt/roas-attribution/internal/models"
)

// GroupOrdersByEmail groups orders by their raw, case-sensitive email.
// Report assembly later re-groups case-insensitively; two groups that
// differ only in email case merge at that point, not here.
func GroupOrdersByEmail(orders []models.Order) map[string][]models.Order {
	groups := make(map[string][]models.Order)
	for _, o := range orders {
		groups[o.Email] = append(groups[o.Email], o)
	}
	return groups
}

// NormalizeCustomer collapses all orders sharing one email into a
// canonical Customer. Identity fields resolve to the first non-empty
// candidate in a fixed precedence; line items are deduplicated by
// transaction id with the first occurrence winning.
func NormalizeCustomer(orders []models.Order) models.Customer {
	leadIP := firstOf(orders, func(o models.Order) string { return o.LeadIP })
	leadEmail := firstOf(orders, func(o models.Order) string { return o.LeadEmail })
	buyerEmail := firstOf(orders, func(o models.Order) string { return o.BuyerEmail })
	gdprIP := firstOf(orders, func(o models.Order) string { return o.GdprLeadStatusIP })
	directEmail := firstOf(orders, func(o models.Order) string { return o.Email })
	directIP := firstOf(orders, func(o models.Order) string { return o.IP })

	// lead_ip wins over the direct ip, which wins over the GDPR lead ip.
	ipAddress := firstNonEmpty(leadIP, directIP, gdprIP)
	email := firstNonEmpty(leadEmail, buyerEmail, directEmail)

	lineItems := dedupeLineItems(orders)
	cart := Cart(lineItems)

	return models.Customer{
		Email:          email,
		LowerCaseEmail: strings.ToLower(email),
		IPAddress:      ipAddress,
		FirstName:      firstOf(orders, func(o models.Order) string { return o.FirstName }),
		LastName:       firstOf(orders, func(o models.Order) string { return o.LastName }),
		RoasUserID:     firstOf(orders, func(o models.Order) string { return o.RoasUserID }),
		LineItems:      lineItems,
		Cart:           cart,
		Stats:          CartStats(cart),
	}
}

// dedupeLineItems projects orders to line items, keeping the first
// order seen per transaction id.
func dedupeLineItems(orders []models.Order) []models.LineItem {
	seen := make(map[string]bool, len(orders))
	items := make([]models.LineItem, 0, len(orders))
	for _, o := range orders {
		if seen[o.TransactionID] {
			continue
		}
		seen[o.TransactionID] = true
		items = append(items, models.LineItem{
			Price:                  o.Price,
			ProductName:            o.ProductName,
			TransactionAmount:      o.TransactionAmount,
			TransactionBaseAmount:  o.TransactionBaseAmount,
			TransactionID:          o.TransactionID,
			TransactionQuantity:    o.TransactionQuantity,
			CreatedAtUnixTimestamp: o.CreatedAtUnixTimestamp,
			TransactionFullAmount:  o.TransactionFullAmount,
		})
	}
	return items
}

// Cart projects line items to the purchased products and their charged
// amounts.
func Cart(lineItems []models.LineItem) []models.CartItem {
	cart := make([]models.CartItem, 0, len(lineItems))
	for _, li := range lineItems {
		cart = append(cart, models.CartItem{
			Name:  li.ProductName,
			Price: parseAmount(li.TransactionFullAmount),
		})
	}
	return cart
}

// CartStats summarizes a cart.
func CartStats(cart []models.CartItem) models.Stats {
	stats := models.Stats{SalesCount: len(cart)}
	for _, item := range cart {
		stats.RevenueSum += item.Price
	}
	return stats
}

// parseAmount converts a cart amount string to a number; unparseable
// amounts count as zero.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// firstOf returns the field value from the first order where it is
// non-empty.
func firstOf(orders []models.Order, field func(models.Order) string) string {
	for _, o := range orders {
		if v := field(o); v != "" {
			return v
		}
	}
	return ""
}

// firstNonEmpty is the ordered-precedence resolver used for identity
// fields: the first defined candidate wins.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
