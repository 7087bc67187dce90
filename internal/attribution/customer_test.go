package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radiusdt/roas-attribution/internal/models"
)

func TestGroupOrdersByEmail(t *testing.T) {
	orders := []models.Order{
		{Email: "A@x.com", TransactionID: "t1"},
		{Email: "a@x.com", TransactionID: "t2"},
		{Email: "A@x.com", TransactionID: "t3"},
	}

	groups := GroupOrdersByEmail(orders)

	// Grouping is case sensitive; assembly merges case variants later.
	assert.Len(t, groups, 2)
	assert.Len(t, groups["A@x.com"], 2)
	assert.Len(t, groups["a@x.com"], 1)
}

func TestNormalizeCustomerIPPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		orders []models.Order
		want   string
	}{
		{
			"lead_ip wins",
			[]models.Order{{LeadIP: "10.0.0.1", IP: "10.0.0.2", GdprLeadStatusIP: "10.0.0.3"}},
			"10.0.0.1",
		},
		{
			"direct ip next",
			[]models.Order{{IP: "10.0.0.2", GdprLeadStatusIP: "10.0.0.3"}},
			"10.0.0.2",
		},
		{
			"gdpr ip last",
			[]models.Order{{GdprLeadStatusIP: "10.0.0.3"}},
			"10.0.0.3",
		},
		{
			"no ip at all",
			[]models.Order{{Email: "a@x.com"}},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCustomer(tt.orders).IPAddress)
		})
	}
}

func TestNormalizeCustomerEmailPrecedence(t *testing.T) {
	c := NormalizeCustomer([]models.Order{
		{Email: "direct@x.com", BuyerEmail: "buyer@x.com", LeadEmail: "Lead@X.com"},
	})
	assert.Equal(t, "Lead@X.com", c.Email)
	assert.Equal(t, "lead@x.com", c.LowerCaseEmail)

	c = NormalizeCustomer([]models.Order{
		{Email: "direct@x.com", BuyerEmail: "buyer@x.com"},
	})
	assert.Equal(t, "buyer@x.com", c.Email)

	c = NormalizeCustomer([]models.Order{{Email: "direct@x.com"}})
	assert.Equal(t, "direct@x.com", c.Email)
}

func TestNormalizeCustomerDedupesLineItems(t *testing.T) {
	orders := []models.Order{
		{TransactionID: "t1", ProductName: "Course", TransactionFullAmount: "100"},
		{TransactionID: "t1", ProductName: "Course duplicate", TransactionFullAmount: "999"},
		{TransactionID: "t2", ProductName: "Workbook", TransactionFullAmount: "25.50"},
	}

	c := NormalizeCustomer(orders)

	assert.Len(t, c.LineItems, 2)
	seen := map[string]int{}
	for _, li := range c.LineItems {
		seen[li.TransactionID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "transaction %s duplicated", id)
	}
	// First occurrence wins.
	assert.Equal(t, "Course", c.LineItems[0].ProductName)

	assert.Equal(t, []models.CartItem{
		{Name: "Course", Price: 100},
		{Name: "Workbook", Price: 25.50},
	}, c.Cart)
	assert.Equal(t, models.Stats{SalesCount: 2, RevenueSum: 125.50}, c.Stats)
}

func TestNormalizeCustomerPartialRecords(t *testing.T) {
	// Partial records collapse: each field takes its first defined value.
	orders := []models.Order{
		{TransactionID: "t1", Email: "a@x.com", RoasUserID: "u1"},
		{TransactionID: "t2", FirstName: "Ada", LastName: "Lovelace", LeadIP: "10.0.0.9"},
	}

	c := NormalizeCustomer(orders)

	assert.Equal(t, "a@x.com", c.Email)
	assert.Equal(t, "Ada", c.FirstName)
	assert.Equal(t, "Lovelace", c.LastName)
	assert.Equal(t, "u1", c.RoasUserID)
	assert.Equal(t, "10.0.0.9", c.IPAddress)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 12.5, parseAmount("12.5"))
	assert.Equal(t, 12.5, parseAmount(" 12.5 "))
	assert.Equal(t, 0.0, parseAmount(""))
	assert.Equal(t, 0.0, parseAmount("free"))
}
