package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
)

// Init returns the command for the interactive options wizard.
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a deploy options file interactively",
		Long: `Create a deploy options file with an interactive wizard.

The wizard asks for the project, web server, database, TLS and system
settings. Secrets (SECRET_KEY, pg_password) are never written; pass them
with --env-file or --set when deploying.

Examples:
  hostkit init
  hostkit init -f production.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "file", "f", "hostkit.yaml", "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file without asking")

	return cmd
}
