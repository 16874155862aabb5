package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/followup/internal/domain/client"
	"github.com/rpggio/followup/internal/repository"
)

var (
	_ repository.Store  = (*Store)(nil)
	_ repository.Mirror = (*Mirror)(nil)
)

// Store is a mock for repository.Store.
type Store struct {
	mock.Mock
}

func (m *Store) Load(ctx context.Context) ([]client.Client, error) {
	args := m.Called(ctx)
	if clients, ok := args.Get(0).([]client.Client); ok {
		return clients, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Save(ctx context.Context, clients []client.Client) error {
	args := m.Called(ctx, clients)
	return args.Error(0)
}

// Mirror is a mock for repository.Mirror.
type Mirror struct {
	mock.Mock

	// DisabledValue controls Disabled without requiring an expectation.
	DisabledValue bool
}

func (m *Mirror) UpsertClient(ctx context.Context, c client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *Mirror) UpdateClient(ctx context.Context, c client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *Mirror) DeleteClient(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Mirror) InsertNote(ctx context.Context, clientID string, n client.Note) error {
	args := m.Called(ctx, clientID, n)
	return args.Error(0)
}

func (m *Mirror) DeleteNote(ctx context.Context, noteID string) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

func (m *Mirror) FetchAll(ctx context.Context) ([]client.Client, error) {
	args := m.Called(ctx)
	if clients, ok := args.Get(0).([]client.Client); ok {
		return clients, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Mirror) Disabled() bool {
	return m.DisabledValue
}
