package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

func newAskCommand(app *App) *cobra.Command {
	var showContext bool

	cmd := &cobra.Command{
		Use:   "ask <tenant> <question>",
		Short: "Ask the assistant about a tenant",
		Long: `Retrieve the tenant's best matching chunks and let the configured LLM
answer from them. Shop tenants get a sales analyst, the catalog tenant a
shopping concierge. Without an LLM the retrieved context is printed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := parseTenantArg(args[0])
			if err != nil {
				return err
			}
			assistant, err := app.assistant()
			if err != nil {
				return err
			}

			question := strings.Join(args[1:], " ")
			answer, err := assistant.Ask(cmd.Context(), tenant, question)
			switch {
			case errors.Is(err, domain.ErrLLMUnavailable) && answer != nil:
				cmd.Println("No LLM configured; showing the retrieved context.")
				cmd.Println()
				outputMatches(cmd, answer.Matches)
				return nil
			case err != nil:
				return fmt.Errorf("ask failed: %w", err)
			}

			cmd.Println(strings.TrimSpace(answer.Text))
			if showContext {
				cmd.Println()
				outputMatches(cmd, answer.Matches)
			} else if n := len(answer.Matches); n > 0 {
				cmd.Printf("\n(%d context chunks; --context to show them)\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showContext, "context", false, "print the retrieved chunks after the answer")
	return cmd
}
