package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/models"
)

// PostgresOrderStore reads purchase-action documents from PostgreSQL.
// Action payloads are stored as JSONB alongside the indexed filter
// columns, mirroring the document-store layout they were migrated from.
type PostgresOrderStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresOrderStore creates a Postgres-backed order store.
func NewPostgresOrderStore(pool *pgxpool.Pool, logger *zap.Logger) *PostgresOrderStore {
	return &PostgresOrderStore{pool: pool, logger: logger}
}

func (s *PostgresOrderStore) ActionsInWindow(ctx context.Context, userID string, start, end int64) ([]models.Action, error) {
	const q = `
		SELECT payload
		FROM kartra_actions
		WHERE roas_user_id = $1
		  AND created_at_unix_timestamp > $2
		  AND created_at_unix_timestamp < $3`

	rows, err := s.pool.Query(ctx, q, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	actions := make([]models.Action, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}

		var a models.Action
		if err := json.Unmarshal(payload, &a); err != nil {
			// Skip malformed documents rather than failing the window.
			s.logger.Warn("skipping malformed action payload", zap.Error(err))
			continue
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}

	return actions, nil
}
