package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/rpggio/followup/internal/config"
	"github.com/rpggio/followup/internal/domain/client"
	"github.com/rpggio/followup/internal/mcp"
	"github.com/rpggio/followup/internal/mirror"
	"github.com/rpggio/followup/internal/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the wired application for one command invocation.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sqlite.DB
	svc    *client.Service
}

func newApp(confirm client.Confirmer, logWriter io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	store := sqlite.NewSnapshotStore(db)
	remote := mirror.New(cfg.Mirror.Endpoint, cfg.Mirror.Key)
	svc := client.NewService(store, remote, confirm, logger,
		client.WithBootstrap(cfg.Mirror.Bootstrap))

	return &app{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

func (a *app) close() {
	// Let in-flight mirror calls drain before the process exits.
	a.svc.Flush()
	a.db.Close()
}

func newRootCmd() *cobra.Command {
	var assumeYes bool

	root := &cobra.Command{
		Use:           "followup",
		Short:         "Client follow-up tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")

	confirm := func() client.Confirmer {
		if assumeYes {
			return client.ConfirmFunc(func(string) bool { return true })
		}
		return terminalConfirmer{}
	}

	root.AddCommand(
		newServeCmd(),
		newAddCmd(confirm),
		newListCmd(confirm),
		newShowCmd(confirm),
		newRenameCmd(confirm),
		newSetDateCmd(confirm),
		newDoneCmd(confirm),
		newNoteCmd(confirm),
		newRemoveCmd(confirm),
		newExportCmd(confirm),
		newImportCmd(confirm),
	)
	return root
}

// terminalConfirmer asks the question on the controlling terminal.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [s/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

// withApp wires the application, runs fn, then drains and closes.
func withApp(confirm func() client.Confirmer, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(confirm(), os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()
	a.svc.Init(ctx)
	return fn(ctx, a)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio or HTTP per config)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
			logWriter := io.Writer(os.Stdout)
			if cfg.Transport.Mode == "stdio" {
				logWriter = os.Stderr
			}
			logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
				Level: parseLogLevel(cfg.Log.Level),
			}))

			if err := ensureDBDir(cfg.DB.Path); err != nil {
				return fmt.Errorf("preparing database path: %w", err)
			}
			db, err := sqlite.New(cfg.DB.Path)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			if err := db.RunMigrations(); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			store := sqlite.NewSnapshotStore(db)
			remote := mirror.New(cfg.Mirror.Endpoint, cfg.Mirror.Key)
			// Confirmation happens at the tool boundary (confirm
			// parameters); the service itself always proceeds.
			svc := client.NewService(store, remote,
				client.ConfirmFunc(func(string) bool { return true }),
				logger,
				client.WithBootstrap(cfg.Mirror.Bootstrap))
			svc.Init(cmd.Context())
			defer svc.Flush()

			mcpServer := mcp.NewServer(mcp.Config{
				Service:       svc,
				AuthEnabled:   cfg.Auth.Enabled,
				AccessKey:     cfg.Auth.Key,
				TransportMode: cfg.Transport.Mode,
				Logger:        logger,
			})

			if cfg.Transport.Mode == "stdio" {
				return runStdioMode(logger, mcpServer)
			}
			return runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
		},
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	if err := mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
	return nil
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func newAddCmd(confirm func() client.Confirmer) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a client",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				view, err := a.svc.Add(ctx, strings.Join(args, " "), client.ParseDateTime(date))
				if err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "next follow-up (YYYY-MM-DDTHH:MM, local time)")
	return cmd
}

func newListCmd(confirm func() client.Confirmer) *cobra.Command {
	var query, filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the agenda sorted by follow-up urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				f, err := client.ParseFilter(filter)
				if err != nil {
					return err
				}
				views := a.svc.List(ctx, client.ListOptions{Query: query, Filter: f})
				if len(views) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nenhum cliente encontrado.")
					return nil
				}
				for _, v := range views {
					printView(cmd.OutOrStdout(), v)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring match against client names")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "status filter: all, today, week, overdue, nodate")
	return cmd
}

func newShowCmd(confirm func() client.Confirmer) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a client's details and note history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				view, err := a.svc.Get(ctx, args[0])
				if err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), view)
				for _, n := range view.Notes {
					fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s  %s\n", n.ID, client.FormatTimestamp(n.At), n.Text)
				}
				return nil
			})
		},
	}
}

func newRenameCmd(confirm func() client.Confirmer) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a client",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				view, err := a.svc.Rename(ctx, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
}

func newSetDateCmd(confirm func() client.Confirmer) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "set-date <id>",
		Short: "Set or clear a client's next follow-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				view, err := a.svc.Reschedule(ctx, args[0], client.ParseDateTime(date))
				if err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "next follow-up (YYYY-MM-DDTHH:MM, local time); empty clears")
	return cmd
}

func newDoneCmd(confirm func() client.Confirmer) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark the follow-up as completed and schedule the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				view, err := a.svc.MarkDone(ctx, args[0], days)
				if err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days until the next follow-up (default 7, minimum 1)")
	return cmd
}

func newNoteCmd(confirm func() client.Confirmer) *cobra.Command {
	note := &cobra.Command{
		Use:   "note",
		Short: "Manage a client's notes",
	}
	note.AddCommand(&cobra.Command{
		Use:   "add <client-id> <text>",
		Short: "Append a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				n, err := a.svc.AddNote(ctx, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", n.ID, n.Text)
				return nil
			})
		},
	})
	note.AddCommand(&cobra.Command{
		Use:   "rm <client-id> <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				return a.svc.DeleteNote(ctx, args[0], args[1])
			})
		},
	})
	return note
}

func newRemoveCmd(confirm func() client.Confirmer) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a client and its note history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				return a.svc.Delete(ctx, args[0])
			})
		},
	}
}

func newExportCmd(confirm func() client.Confirmer) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full dataset to a date-stamped JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				data, name, err := a.svc.Export(ctx)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = name
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("writing backup: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: followup_backup_<date>.json)")
	return cmd
}

func newImportCmd(confirm func() client.Confirmer) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the full dataset from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(confirm, func(ctx context.Context, a *app) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("reading backup: %w", err)
				}
				n, err := a.svc.Import(ctx, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d cliente(s) importado(s)\n", n)
				return nil
			})
		},
	}
}

func printView(w io.Writer, v client.View) {
	next := "Sem próximo follow-up"
	if v.NextFollowUp != nil {
		next = "Próximo: " + client.FormatTimestamp(*v.NextFollowUp)
	}
	fmt.Fprintf(w, "%s  %-24s %-32s %s\n", v.ID, v.Name, next, v.Label)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
