package client

import "context"

// Store persists the full client collection as one snapshot.
type Store interface {
	Load(ctx context.Context) ([]Client, error)
	Save(ctx context.Context, clients []Client) error
}

// Mirror is the optional write-only remote backend. Every call is
// best-effort: the service logs failures and never lets them block or
// reverse a local mutation.
type Mirror interface {
	UpsertClient(ctx context.Context, c Client) error
	UpdateClient(ctx context.Context, c Client) error
	DeleteClient(ctx context.Context, id string) error
	InsertNote(ctx context.Context, clientID string, n Note) error
	DeleteNote(ctx context.Context, noteID string) error
	FetchAll(ctx context.Context) ([]Client, error)
	Disabled() bool
}

// Confirmer is the user-confirmation capability required by
// destructive operations. Tests substitute a programmable stub.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
