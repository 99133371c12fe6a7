package cli

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
)

const msRound = time.Millisecond

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [tenant]",
		Short: "Show index and refresh status",
		Long: `Show the persisted index and the latest rebuild of one tenant, or of
every tenant with a persisted index when none is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := app.index()
			if err != nil {
				return err
			}

			var tenants []domain.TenantID
			if len(args) == 1 {
				tenant, err := parseTenantArg(args[0])
				if err != nil {
					return err
				}
				tenants = []domain.TenantID{tenant}
			} else {
				tenants, err = app.knownTenants(cmd)
				if err != nil {
					return err
				}
			}

			if len(tenants) == 0 {
				cmd.Println("No indexes built yet. Run 'loom refresh <tenant>'.")
				return nil
			}
			for _, tenant := range tenants {
				app.printStatus(cmd, index, tenant)
			}
			return nil
		},
	}
}

func (a *App) knownTenants(cmd *cobra.Command) ([]domain.TenantID, error) {
	var tenants []domain.TenantID
	if a.services.Tenants != nil {
		listed, err := a.services.Tenants(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("listing tenants: %w", err)
		}
		tenants = listed
	}
	for _, t := range a.services.Index.Tenants() {
		if !slices.Contains(tenants, t) {
			tenants = append(tenants, t)
		}
	}
	slices.Sort(tenants)
	return tenants, nil
}

func (a *App) printStatus(cmd *cobra.Command, index driving.IndexService, tenant domain.TenantID) {
	cmd.Println(tenant)

	err := index.Load(cmd.Context(), tenant)
	info, ok := index.Info(tenant)
	switch {
	case ok:
		cmd.Printf("  Index: %d vectors, %d dims, %s, built %s\n",
			info.Vectors, info.Dimension, info.Model, info.BuiltAt.Local().Format(time.DateTime))
	case errors.Is(err, domain.ErrIndexUnavailable):
		cmd.Println("  Index: none")
	case err != nil:
		cmd.Printf("  Index: unusable (%v)\n", err)
	default:
		cmd.Println("  Index: none")
	}

	if a.services.Refresh == nil {
		cmd.Println()
		return
	}
	status := a.services.Refresh.Status(tenant)
	if status.State == domain.RefreshRebuilding {
		cmd.Printf("  Refresh: %s\n", status.State)
	}

	runs, err := a.services.Refresh.History(cmd.Context(), tenant, 1)
	switch {
	case err != nil:
		cmd.Printf("  Last rebuild: unknown (%v)\n", err)
	case len(runs) == 0:
		cmd.Println("  Last rebuild: never")
	default:
		cmd.Printf("  Last rebuild: %s\n", runSummary(&runs[0]))
	}
	cmd.Println()
}

func runSummary(run *domain.RebuildRun) string {
	when := run.StartedAt.Local().Format(time.DateTime)
	if run.Success {
		return fmt.Sprintf("ok at %s (%s, %d vectors)", when, run.Reason, run.Vectors)
	}
	return fmt.Sprintf("failed at %s (%s): %s", when, run.Reason, run.Error)
}

func newRunsCommand(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs <tenant>",
		Short: "List recent rebuilds of a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := parseTenantArg(args[0])
			if err != nil {
				return err
			}
			refresh, err := app.refresh()
			if err != nil {
				return err
			}

			runs, err := refresh.History(cmd.Context(), tenant, limit)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			if len(runs) == 0 {
				cmd.Printf("No rebuilds recorded for %s.\n", tenant)
				return nil
			}

			cmd.Printf("%-8s  %-19s  %-9s  %-8s  %5s  %7s  %s\n",
				"ID", "STARTED", "REASON", "TOOK", "DOCS", "VECTORS", "RESULT")
			for i := range runs {
				run := &runs[i]
				result := "ok"
				if !run.Success {
					result = "failed: " + run.Error
				}
				cmd.Printf("%-8s  %-19s  %-9s  %-8s  %5d  %7d  %s\n",
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					run.Reason,
					run.Duration().Round(msRound),
					run.Documents,
					run.Vectors,
					result)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of runs")
	return cmd
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
