package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui"
)

func newChatCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <tenant>",
		Short: "Chat with the assistant in the terminal UI",
		Long: `Launch the interactive chat for one tenant.

Controls:
  Enter        - Ask
  Tab          - Show the retrieved context
  ↑/k, ↓/j     - Navigate context
  PgUp/PgDn    - Scroll the transcript
  Ctrl+R       - Rebuild the tenant index
  Esc          - Back
  F1           - Toggle help
  Ctrl+C       - Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := parseTenantArg(args[0])
			if err != nil {
				return err
			}
			assistant, err := app.assistant()
			if err != nil {
				return err
			}

			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
					fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
				}
			}()

			ports := &tui.Ports{
				Assistant: assistant,
				Refresh:   app.services.Refresh,
			}
			ui, err := tui.NewApp(ports, tenant)
			if err != nil {
				return fmt.Errorf("failed to create TUI: %w", err)
			}

			if err := ui.WithContext(cmd.Context()).Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}
			if app.services.Refresh != nil {
				app.services.Refresh.Wait()
			}
			return nil
		},
	}
}
