// Package cli provides the loom command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// skipServices marks commands that run without opening services.
const skipServices = "loom/skip-services"

// Options are the global flags.
type Options struct {
	ConfigDir string
	DataDir   string
	Verbose   bool
}

// Watcher is the upload watcher started by serve.
type Watcher interface {
	Run(ctx context.Context) error
	Close() error
}

// Services are the collaborators commands run against. Nil fields mark
// features that are unavailable with the current configuration.
type Services struct {
	Index     driving.IndexService
	Refresh   driving.RefreshService
	Assistant driving.AssistantService
	Settings  driving.SettingsService
	Scheduler driving.Scheduler

	// OpenWatcher starts watching the upload directory. Nil disables it.
	OpenWatcher func() (Watcher, error)

	// Tenants lists tenants with persisted indexes.
	Tenants func(ctx context.Context) ([]domain.TenantID, error)

	// Close releases everything acquired while opening.
	Close func() error
}

// Opener builds services from the global options.
type Opener func(ctx context.Context, opts Options) (*Services, error)

// App carries the runtime state of one command invocation.
type App struct {
	Version string
	Open    Opener

	opts     Options
	services *Services
}

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "loom",
		Short: "Per-tenant retrieval indexes for the textile marketplace",
		Long: `loom builds and serves semantic search indexes over each shop's sales
history and over the public product catalog.

Indexes are rebuilt in the background when shops upload data, on a
schedule, or on demand, and are queried by the assistant, the MCP server
and the chat TUI.`,
		SilenceUsage:      true,
		PersistentPreRunE: app.open,
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&app.opts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&app.opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.loom)")
	flags.StringVar(&app.opts.DataDir, "data-dir", "", "index data directory (default <config-dir>/data)")

	root.AddCommand(
		newRefreshCommand(app),
		newSearchCommand(app),
		newAskCommand(app),
		newStatusCommand(app),
		newRunsCommand(app),
		newServeCommand(app),
		newChatCommand(app),
		newSettingsCommand(app),
		newVersionCommand(app),
	)
	return root
}

// Execute runs the command tree with args and releases services afterwards.
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, app.Close())
}

func (a *App) open(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(a.opts.Verbose)

	if cmd.Annotations[skipServices] == "true" || cmd.Name() == "help" || a.services != nil {
		return nil
	}
	if a.Open == nil {
		return errors.New("no service opener configured")
	}

	services, err := a.Open(cmd.Context(), a.opts)
	if err != nil {
		return fmt.Errorf("opening services: %w", err)
	}
	a.services = services
	return nil
}

// Close releases the opened services. It is safe to call more than once.
func (a *App) Close() error {
	if a.services == nil || a.services.Close == nil {
		a.services = nil
		return nil
	}
	closeFn := a.services.Close
	a.services = nil
	return closeFn()
}

// Options returns the parsed global flags.
func (a *App) Options() Options {
	return a.opts
}

// Services returns the opened services or nil.
func (a *App) Services() *Services {
	return a.services
}

func (a *App) index() (driving.IndexService, error) {
	if a.services == nil || a.services.Index == nil {
		return nil, errors.New("index service not configured")
	}
	return a.services.Index, nil
}

func (a *App) refresh() (driving.RefreshService, error) {
	if a.services == nil || a.services.Refresh == nil {
		return nil, errors.New("refresh service not configured")
	}
	return a.services.Refresh, nil
}

func (a *App) assistant() (driving.AssistantService, error) {
	if a.services == nil || a.services.Assistant == nil {
		return nil, errors.New("assistant not configured")
	}
	return a.services.Assistant, nil
}

func (a *App) settings() (driving.SettingsService, error) {
	if a.services == nil || a.services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return a.services.Settings, nil
}

// parseTenantArg accepts "catalog", "shop-<id>" or a bare shop id.
func parseTenantArg(arg string) (domain.TenantID, error) {
	tenant, err := domain.ParseTenant(arg)
	if err != nil {
		return "", fmt.Errorf("invalid tenant %q: want catalog, shop-<id> or a shop id: %w", arg, err)
	}
	return tenant, nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
