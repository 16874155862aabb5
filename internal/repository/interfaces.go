package repository

import (
	"context"

	"github.com/rpggio/followup/internal/domain/client"
)

// Store persists the full client collection as one serialized snapshot
// under a fixed key.
type Store interface {
	Load(ctx context.Context) ([]client.Client, error)
	Save(ctx context.Context, clients []client.Client) error
}

// Mirror issues best-effort writes to the optional remote backend.
// The remote is write-only after the initial bulk load; nothing is
// read back into the in-memory model during normal operation.
type Mirror interface {
	UpsertClient(ctx context.Context, c client.Client) error
	UpdateClient(ctx context.Context, c client.Client) error
	DeleteClient(ctx context.Context, id string) error
	InsertNote(ctx context.Context, clientID string, n client.Note) error
	DeleteNote(ctx context.Context, noteID string) error
	FetchAll(ctx context.Context) ([]client.Client, error)
	Disabled() bool
}
