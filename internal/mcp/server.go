package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/followup/internal/domain/client"
)

// TrackerService defines the follow-up operations needed by MCP.
type TrackerService interface {
	Add(ctx context.Context, name string, next *int64) (client.View, error)
	Rename(ctx context.Context, id, name string) (client.View, error)
	Reschedule(ctx context.Context, id string, next *int64) (client.View, error)
	MarkDone(ctx context.Context, id string, days int) (client.View, error)
	AddNote(ctx context.Context, id, text string) (client.Note, error)
	DeleteNote(ctx context.Context, clientID, noteID string) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (client.View, error)
	List(ctx context.Context, opts client.ListOptions) []client.View
	Export(ctx context.Context) ([]byte, string, error)
	Import(ctx context.Context, data []byte) (int, error)
}

// Config contains server configuration.
type Config struct {
	Service       TrackerService
	AuthEnabled   bool
	AccessKey     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

const serverInstructions = `Client follow-up tracker. Clients have a name, an optional next
follow-up timestamp and a note history. Use list_clients to see the
agenda sorted by urgency (filters: all, today, week, overdue, nodate),
mark_done to complete a follow-up and schedule the next one, and
export_backup/import_backup to archive or restore the full dataset.
Destructive tools require confirm=true.`

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "followup",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode: always disable auth (local dev only).
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.AccessKey))
	}

	registerTools(server, cfg.Service)

	return server
}
