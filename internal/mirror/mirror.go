package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rpggio/followup/internal/domain/client"
	"github.com/rpggio/followup/internal/repository"
)

// Client mirrors local mutations to a PostgREST-style remote backend
// with two tables: clients (id, name, next_follow_up) and notes
// (id, client_id, text, at). All calls are issued after the local
// mutation has committed; callers treat failures as warnings.
type Client struct {
	endpoint string
	key      string
	httpc    *http.Client
}

var _ repository.Mirror = (*Client)(nil)

// New creates a mirror client. An empty endpoint or key disables it.
func New(endpoint, key string) *Client {
	return &Client{
		endpoint: endpoint,
		key:      key,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Disabled reports whether the mirror is unconfigured. Disabled
// mirrors are never called by the service.
func (m *Client) Disabled() bool {
	return m.endpoint == "" || m.key == ""
}

type clientRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NextFollowUp *int64 `json:"next_follow_up"`
}

type noteRow struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Text     string `json:"text"`
	At       int64  `json:"at"`
}

// UpsertClient inserts or replaces the client row.
func (m *Client) UpsertClient(ctx context.Context, c client.Client) error {
	row := clientRow{ID: c.ID, Name: c.Name, NextFollowUp: c.NextFollowUp}
	return m.do(ctx, http.MethodPost, "clients", "", row, "resolution=merge-duplicates", nil)
}

// UpdateClient updates the name and follow-up of an existing row.
func (m *Client) UpdateClient(ctx context.Context, c client.Client) error {
	body := map[string]any{
		"name":           c.Name,
		"next_follow_up": c.NextFollowUp,
	}
	return m.do(ctx, http.MethodPatch, "clients", "id=eq."+url.QueryEscape(c.ID), body, "", nil)
}

// DeleteClient deletes the client row. Remote notes are keyed
// independently and are not guaranteed to cascade.
func (m *Client) DeleteClient(ctx context.Context, id string) error {
	return m.do(ctx, http.MethodDelete, "clients", "id=eq."+url.QueryEscape(id), nil, "", nil)
}

// InsertNote inserts a note row referencing its client.
func (m *Client) InsertNote(ctx context.Context, clientID string, n client.Note) error {
	row := noteRow{ID: n.ID, ClientID: clientID, Text: n.Text, At: n.At}
	return m.do(ctx, http.MethodPost, "notes", "", row, "", nil)
}

// DeleteNote deletes a note row by id.
func (m *Client) DeleteNote(ctx context.Context, noteID string) error {
	return m.do(ctx, http.MethodDelete, "notes", "id=eq."+url.QueryEscape(noteID), nil, "", nil)
}

// FetchAll bulk-loads both tables and joins notes to clients by
// client_id. Only used to seed an empty local slot; after that the
// local cache is authoritative and the remote is write-only.
func (m *Client) FetchAll(ctx context.Context) ([]client.Client, error) {
	var clientRows []clientRow
	if err := m.do(ctx, http.MethodGet, "clients", "select=*", nil, "", &clientRows); err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	var noteRows []noteRow
	if err := m.do(ctx, http.MethodGet, "notes", "select=*", nil, "", &noteRows); err != nil {
		return nil, fmt.Errorf("fetching notes: %w", err)
	}

	byID := make(map[string]int, len(clientRows))
	clients := make([]client.Client, 0, len(clientRows))
	for _, row := range clientRows {
		byID[row.ID] = len(clients)
		clients = append(clients, client.Client{
			ID:           row.ID,
			Name:         row.Name,
			NextFollowUp: row.NextFollowUp,
			Notes:        []client.Note{},
		})
	}
	for _, row := range noteRows {
		i, ok := byID[row.ClientID]
		if !ok {
			continue
		}
		clients[i].Notes = append(clients[i].Notes, client.Note{
			ID:   row.ID,
			Text: row.Text,
			At:   row.At,
		})
	}
	return clients, nil
}

func (m *Client) do(ctx context.Context, method, table, rawQuery string, body any, prefer string, out any) error {
	endpoint := m.endpoint + "/rest/v1/" + table
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", table, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", table, err)
	}
	req.Header.Set("apikey", m.key)
	req.Header.Set("Authorization", "Bearer "+m.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := m.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, bytes.TrimSpace(detail))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s response: %w", table, err)
		}
	}
	return nil
}
