package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/models"
)

// eventColumns are the event fields EventsByField may filter on.
// Queries are assembled with fmt.Sprintf, so the field name must come
// from this allowlist.
var eventColumns = map[string]bool{
	"ipv4":     true,
	"ipv6":     true,
	"ad_id":    true,
	"fb_ad_id": true,
	"h_ad_id":  true,
	"fb_id":    true,
}

// ClickHouseEventStore reads ad click/view events from ClickHouse.
type ClickHouseEventStore struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewClickHouseEventStore creates a ClickHouse-backed ad-event store.
func NewClickHouseEventStore(conn driver.Conn, logger *zap.Logger) *ClickHouseEventStore {
	return &ClickHouseEventStore{conn: conn, logger: logger}
}

func (s *ClickHouseEventStore) EventsByIPv4(ctx context.Context, userID, ip string) ([]models.AdEvent, error) {
	return s.EventsByField(ctx, "ipv4", ip, userID)
}

func (s *ClickHouseEventStore) EventsByIPv6(ctx context.Context, userID, ip string) ([]models.AdEvent, error) {
	return s.EventsByField(ctx, "ipv6", ip, userID)
}

func (s *ClickHouseEventStore) EventsByField(ctx context.Context, field, value, userID string) ([]models.AdEvent, error) {
	if !eventColumns[field] {
		return nil, fmt.Errorf("unknown event field %q", field)
	}

	q := fmt.Sprintf(`
		SELECT
			ad_id, fb_ad_id, h_ad_id, fb_id,
			roas_user_id, ipv4, ipv6, user_agent,
			created_at_unix_timestamp, utc_unix_time,
			utc_iso_datetime, unix_datetime
		FROM events
		WHERE roas_user_id = ? AND %s = ?`, field)

	rows, err := s.conn.Query(ctx, q, userID, value)
	if err != nil {
		return nil, fmt.Errorf("query events by %s: %w", field, err)
	}
	defer rows.Close()

	events := make([]models.AdEvent, 0)
	for rows.Next() {
		var e models.AdEvent
		if err := rows.Scan(
			&e.AdID, &e.FBAdID, &e.HAdID, &e.FBID,
			&e.RoasUserID, &e.IPv4, &e.IPv6, &e.UserAgent,
			&e.CreatedAtUnixTimestamp, &e.UTCUnixTime,
			&e.UTCISODatetime, &e.UnixDatetime,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
