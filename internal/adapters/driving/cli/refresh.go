package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

func newRefreshCommand(app *App) *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "refresh <tenant>",
		Short: "Rebuild a tenant index",
		Long: `Export the tenant's data, embed it and replace its index.

The tenant is "catalog", "shop-<id>" or a bare shop id. By default the
rebuild runs in the foreground and its run record is printed. With --async
the rebuild is handed to the background refresher, which is only useful
together with a long-running process such as 'loom serve'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := parseTenantArg(args[0])
			if err != nil {
				return err
			}
			refresh, err := app.refresh()
			if err != nil {
				return err
			}

			if async {
				ack, err := refresh.Trigger(tenant, domain.ReasonManual)
				if err != nil {
					return fmt.Errorf("refresh failed: %w", err)
				}
				cmd.Printf("Refresh %s: %s\n", tenant, ack)
				refresh.Wait()
				return nil
			}

			run, err := refresh.RefreshNow(cmd.Context(), tenant, domain.ReasonManual)
			if run != nil {
				printRun(cmd, run)
			}
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "trigger a background rebuild and wait for it")
	return cmd
}

func printRun(cmd *cobra.Command, run *domain.RebuildRun) {
	if run.Success {
		cmd.Printf("Rebuilt %s: %d documents, %d vectors in %s\n",
			run.Tenant, run.Documents, run.Vectors, run.Duration().Round(msRound))
		return
	}
	cmd.Printf("Rebuild of %s failed after %s: %s\n",
		run.Tenant, run.Duration().Round(msRound), run.Error)
}
