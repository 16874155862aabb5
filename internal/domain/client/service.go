package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultRescheduleDays = 7

// Service owns the in-memory client collection and the selection
// state. Every mutation runs to completion locally (memory, then the
// snapshot store) before its mirror call is spawned; mirror outcomes
// never surface to the caller.
type Service struct {
	store     Store
	mirror    Mirror
	confirm   Confirmer
	logger    *slog.Logger
	now       func() time.Time
	bootstrap bool

	mu         sync.Mutex
	clients    []Client
	selectedID string
	tails      sync.WaitGroup
}

// NewService creates a new client service.
func NewService(store Store, mirror Mirror, confirm Confirmer, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		mirror:  mirror,
		confirm: confirm,
		logger:  logger,
		now:     time.Now,
		clients: []Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init primes the in-memory collection from the snapshot store. A load
// failure degrades to an empty collection and is only logged. When
// bootstrap is enabled and the local slot is empty, the collection is
// seeded from the mirror and cached locally.
func (s *Service) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("loading clients", "error", err)
		clients = []Client{}
	}
	s.clients = clients

	if len(s.clients) > 0 || !s.bootstrap || s.mirror == nil || s.mirror.Disabled() {
		return
	}
	fetched, err := s.mirror.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("mirror bootstrap failed", "error", err)
		return
	}
	s.clients = fetched
	s.persistLocked(ctx)
}

// Add creates a client with the given name and optional follow-up
// timestamp, and selects it.
func (s *Service) Add(ctx context.Context, name string, next *int64) (View, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return View{}, ErrEmptyName
	}

	c := Client{
		ID:    uuid.NewString(),
		Name:  name,
		Notes: []Note{},
	}
	if next != nil {
		ts := *next
		c.NextFollowUp = &ts
	}

	s.mu.Lock()
	s.clients = append(s.clients, c)
	s.selectedID = c.ID
	s.persistLocked(ctx)
	snapshot := c.Clone()
	now := s.now()
	s.mu.Unlock()

	s.mirrorTail("upsert_client", func(ctx context.Context) error {
		return s.mirror.UpsertClient(ctx, snapshot)
	})
	return s.viewOf(snapshot, now), nil
}

// Rename updates the client's name from trimmed input. Empty input
// keeps the previous name; renames are local-only, the next mirror
// update of the client carries the new name.
func (s *Service) Rename(ctx context.Context, id, name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findLocked(id)
	if err != nil {
		return View{}, err
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		s.clients[i].Name = trimmed
		s.persistLocked(ctx)
	}
	return s.viewOf(s.clients[i].Clone(), s.now()), nil
}

// Reschedule sets the client's next follow-up; nil clears it.
func (s *Service) Reschedule(ctx context.Context, id string, next *int64) (View, error) {
	s.mu.Lock()
	i, err := s.findLocked(id)
	if err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	s.clients[i].NextFollowUp = nil
	if next != nil {
		ts := *next
		s.clients[i].NextFollowUp = &ts
	}
	s.persistLocked(ctx)
	snapshot := s.clients[i].Clone()
	now := s.now()
	s.mu.Unlock()

	s.mirrorTail("update_client", func(ctx context.Context) error {
		return s.mirror.UpdateClient(ctx, snapshot)
	})
	return s.viewOf(snapshot, now), nil
}

// MarkDone completes the current follow-up and schedules the next one
// days ahead of the current follow-up (or of now when none is set).
// Zero days means the default of 7; anything below one day is clamped.
// Exactly one completion note is appended.
func (s *Service) MarkDone(ctx context.Context, id string, days int) (View, error) {
	if days == 0 {
		days = defaultRescheduleDays
	}
	if days < 1 {
		days = 1
	}

	s.mu.Lock()
	i, err := s.findLocked(id)
	if err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	now := s.now()
	base := now.UnixMilli()
	if s.clients[i].NextFollowUp != nil {
		base = *s.clients[i].NextFollowUp
	}
	next := base + int64(days)*millisPerDay
	s.clients[i].NextFollowUp = &next

	note := Note{
		ID:   uuid.NewString(),
		Text: fmt.Sprintf("Follow-up concluído. Próximo em %d dia(s) — %s", days, FormatTimestamp(next)),
		At:   now.UnixMilli(),
	}
	s.clients[i].Notes = append(s.clients[i].Notes, note)
	s.persistLocked(ctx)
	snapshot := s.clients[i].Clone()
	s.mu.Unlock()

	// Two independent best-effort calls; no ordering is guaranteed
	// between them and neither failure suppresses the other.
	s.mirrorTail("update_client", func(ctx context.Context) error {
		return s.mirror.UpdateClient(ctx, snapshot)
	})
	s.mirrorTail("insert_note", func(ctx context.Context) error {
		return s.mirror.InsertNote(ctx, snapshot.ID, note)
	})
	return s.viewOf(snapshot, now), nil
}

// AddNote appends a note with the current timestamp to the client.
func (s *Service) AddNote(ctx context.Context, id, text string) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrEmptyNote
	}

	s.mu.Lock()
	i, err := s.findLocked(id)
	if err != nil {
		s.mu.Unlock()
		return Note{}, err
	}
	note := Note{
		ID:   uuid.NewString(),
		Text: text,
		At:   s.now().UnixMilli(),
	}
	s.clients[i].Notes = append(s.clients[i].Notes, note)
	s.persistLocked(ctx)
	clientID := s.clients[i].ID
	s.mu.Unlock()

	s.mirrorTail("insert_note", func(ctx context.Context) error {
		return s.mirror.InsertNote(ctx, clientID, note)
	})
	return note, nil
}

// DeleteNote removes a note by id after user confirmation.
func (s *Service) DeleteNote(ctx context.Context, clientID, noteID string) error {
	s.mu.Lock()
	i, err := s.findLocked(clientID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	found := false
	for _, n := range s.clients[i].Notes {
		if n.ID == noteID {
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNoteNotFound
	}

	if !s.confirm.Confirm("Excluir esta nota?") {
		return ErrDeclined
	}

	s.mu.Lock()
	i, err = s.findLocked(clientID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	notes := s.clients[i].Notes[:0]
	for _, n := range s.clients[i].Notes {
		if n.ID != noteID {
			notes = append(notes, n)
		}
	}
	s.clients[i].Notes = notes
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.mirrorTail("delete_note", func(ctx context.Context) error {
		return s.mirror.DeleteNote(ctx, noteID)
	})
	return nil
}

// Delete removes a client and its notes after user confirmation. The
// mirror delete is attempted best-effort; the local removal proceeds
// regardless of its outcome. Selection is cleared iff it matched.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i, err := s.findLocked(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	name := s.clients[i].Name
	s.mu.Unlock()

	if !s.confirm.Confirm(fmt.Sprintf("Excluir o cliente %q e todo o histórico?", name)) {
		return ErrDeclined
	}

	s.mirrorTail("delete_client", func(ctx context.Context) error {
		return s.mirror.DeleteClient(ctx, id)
	})

	s.mu.Lock()
	i, err = s.findLocked(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clients = append(s.clients[:i], s.clients[i+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.persistLocked(ctx)
	s.mu.Unlock()
	return nil
}

// Select marks a client as the current detail selection.
func (s *Service) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.findLocked(id); err != nil {
		return err
	}
	s.selectedID = id
	return nil
}

// Selected returns the id of the currently selected client, or empty.
func (s *Service) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Get returns the detail view of a client with notes ordered most
// recent first.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findLocked(id)
	if err != nil {
		return View{}, err
	}
	c := s.clients[i].Clone()
	c.Notes = SortedNotes(c.Notes)
	return s.viewOf(c, s.now()), nil
}

// List returns the filtered, sorted agenda.
func (s *Service) List(ctx context.Context, opts ListOptions) []View {
	s.mu.Lock()
	snapshot := make([]Client, len(s.clients))
	for i, c := range s.clients {
		snapshot[i] = c.Clone()
	}
	now := s.now()
	s.mu.Unlock()
	return Select(snapshot, opts, now)
}

// Export serializes the full collection as pretty-printed JSON and
// returns it with a date-stamped backup filename.
func (s *Service) Export(ctx context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(s.clients, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("serializing backup: %w", err)
	}
	name := fmt.Sprintf("followup_backup_%s.json", s.now().Format("2006-01-02"))
	return data, name, nil
}

// Import parses and sanitizes a backup payload and, after user
// confirmation, replaces the entire collection. The mirror is not
// touched; existing remote rows are left stale. Any failure leaves the
// current state unchanged.
func (s *Service) Import(ctx context.Context, data []byte) (int, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	sanitized := SanitizeAt(parsed, s.now())

	if !s.confirm.Confirm("Isso vai substituir os dados atuais. Deseja continuar?") {
		return 0, ErrDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = sanitized
	if _, err := s.findLocked(s.selectedID); err != nil {
		s.selectedID = ""
	}
	s.persistLocked(ctx)
	return len(sanitized), nil
}

// Flush waits for outstanding mirror calls. Local effects are never
// gated on this; it exists so short-lived processes can drain before
// exit.
func (s *Service) Flush() {
	s.tails.Wait()
}

func (s *Service) findLocked(id string) (int, error) {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrClientNotFound
}

func (s *Service) persistLocked(ctx context.Context) {
	if err := s.store.Save(ctx, s.clients); err != nil {
		s.logger.Error("saving clients", "error", err)
	}
}

func (s *Service) viewOf(c Client, now time.Time) View {
	return View{
		Client: c,
		Status: StatusAt(c.NextFollowUp, now),
		Label:  StatusLabel(c.NextFollowUp, now),
	}
}

func (s *Service) mirrorTail(op string, fn func(ctx context.Context) error) {
	if s.mirror == nil || s.mirror.Disabled() {
		return
	}
	s.tails.Add(1)
	go func() {
		defer s.tails.Done()
		if err := fn(context.Background()); err != nil {
			s.logger.Warn("mirror call failed", "op", op, "error", err)
		}
	}()
}
