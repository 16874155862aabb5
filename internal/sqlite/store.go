package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/followup/internal/domain/client"
	"github.com/rpggio/followup/internal/repository"
)

// snapshotKey is the fixed slot the full client collection lives under.
const snapshotKey = "followup_clients_v1"

// SnapshotStore implements repository.Store for SQLite
type SnapshotStore struct {
	db *DB
}

var _ repository.Store = (*SnapshotStore)(nil)

// NewSnapshotStore creates a new SnapshotStore
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Load returns the stored client collection. A missing slot yields an
// empty collection; an unreadable or non-array slot yields an error
// for the caller to degrade on.
func (s *SnapshotStore) Load(ctx context.Context) ([]client.Client, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = ?`, snapshotKey,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return []client.Client{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var clients []client.Client
	if err := json.Unmarshal([]byte(raw), &clients); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for i := range clients {
		if clients[i].Notes == nil {
			clients[i].Notes = []client.Note{}
		}
	}
	return clients, nil
}

// Save serializes and stores the full client collection.
func (s *SnapshotStore) Save(ctx context.Context, clients []client.Client) error {
	if clients == nil {
		clients = []client.Client{}
	}
	data, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, snapshotKey, string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
