package storage

import (
	"context"

	"github.com/radiusdt/roas-attribution/internal/models"
)

// OrderStore retrieves raw purchase-action records for a user.
type OrderStore interface {
	// ActionsInWindow returns actions with a created_at_unix_timestamp
	// strictly between start and end (epoch milliseconds).
	ActionsInWindow(ctx context.Context, userID string, start, end int64) ([]models.Action, error)
}

// AdEventStore retrieves advertising click/view events recorded against
// an IP address. IPv4 and IPv6 hits are stored under separate fields and
// queried independently.
type AdEventStore interface {
	EventsByIPv4(ctx context.Context, userID, ip string) ([]models.AdEvent, error)
	EventsByIPv6(ctx context.Context, userID, ip string) ([]models.AdEvent, error)
	// EventsByField matches an arbitrary indexed event field; field must
	// be one of the known event columns.
	EventsByField(ctx context.Context, field, value, userID string) ([]models.AdEvent, error)
}
