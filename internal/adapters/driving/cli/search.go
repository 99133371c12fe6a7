package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// previewLen bounds the text shown per match.
const previewLen = 160

func newSearchCommand(app *App) *cobra.Command {
	var (
		limit    int
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "search <tenant> <query>",
		Short: "Find the chunks closest to a query",
		Long: `Embed the query and return the tenant's nearest chunks by cosine
similarity, best first. A tenant without an index yields no matches.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := parseTenantArg(args[0])
			if err != nil {
				return err
			}
			index, err := app.index()
			if err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", domain.ErrInvalidInput)
			}

			query := strings.Join(args[1:], " ")
			matches := index.FindBestMatches(cmd.Context(), tenant, query, limit)

			if jsonMode {
				return outputMatchesJSON(cmd, matches)
			}
			outputMatches(cmd, matches)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "k", domain.DefaultTopK, "maximum number of matches")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output matches as JSON")
	return cmd
}

func outputMatchesJSON(cmd *cobra.Command, matches []domain.Match) error {
	if matches == nil {
		matches = []domain.Match{}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	_, err = fmt.Fprintln(out(cmd), string(data))
	return err
}

func outputMatches(cmd *cobra.Command, matches []domain.Match) {
	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return
	}

	cmd.Println("Matches:")
	cmd.Println()
	for i, m := range matches {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, m.Document.Source, m.Score)
		cmd.Printf("      %s\n", preview(m.Document.Text))
		cmd.Println()
	}
}

// preview flattens text onto one line and shortens it to previewLen runes.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen-3]) + "..."
}
