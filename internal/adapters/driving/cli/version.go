package cli

import (
	"github.com/spf13/cobra"
)

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: map[string]string{skipServices: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			version := app.Version
			if version == "" {
				version = "dev"
			}
			cmd.Printf("loom version %s\n", version)
		},
	}
}
