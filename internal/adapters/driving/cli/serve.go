package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/mcp"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

func newServeCommand(app *App) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, upload watcher and MCP server",
		Long: `Run loom as a long-lived process.

The scheduler periodically refreshes every tenant with a persisted index,
the upload watcher rebuilds a shop shortly after files land in its upload
directory, and the Model Context Protocol server exposes search, ask,
refresh and status to AI assistants.

By default the MCP server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (for desktop assistants)
  loom serve

  # HTTP mode (for MCP Inspector, remote access)
  loom serve --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.services == nil {
				return errors.New("services not configured")
			}
			logger.SetTimestamps(true)
			return serve(cmd, app.services, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (0 = use stdio)")
	return cmd
}

func serve(cmd *cobra.Command, s *Services, port int) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Index:     s.Index,
		Refresh:   s.Refresh,
		Assistant: s.Assistant,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var watcher Watcher
	if s.OpenWatcher != nil {
		watcher, err = s.OpenWatcher()
		if err != nil {
			return fmt.Errorf("starting upload watcher: %w", err)
		}
	}

	var wg sync.WaitGroup
	if s.Scheduler != nil {
		if err := s.Scheduler.Startup(ctx); err != nil {
			logger.Warn("startup build: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Scheduler.Start(ctx); err != nil {
				logger.Warn("scheduler stopped: %v", err)
			}
		}()
	}
	if watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("upload watcher stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		err = server.RunHTTP(ctx, addr)
	} else {
		err = server.Run(ctx)
	}

	cancel()
	if s.Scheduler != nil {
		if stopErr := s.Scheduler.Stop(); stopErr != nil {
			logger.Warn("scheduler stop: %v", stopErr)
		}
	}
	if watcher != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Warn("upload watcher close: %v", closeErr)
		}
	}
	wg.Wait()
	if s.Refresh != nil {
		s.Refresh.Stop()
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
