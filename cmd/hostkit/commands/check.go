package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
)

// Check returns the command that reports installed tool versions.
//
// Optional flags:
//
//	--min: tool=version minimum (repeatable)
//	--strict: exit non-zero if a tool is missing or outdated
func Check(g *handlers.GlobalOptions) *cobra.Command {
	var p handlers.CheckParams

	cmd := &cobra.Command{
		Use:   "check [tool...]",
		Short: "Report which tools are installed on the hosts",
		Long: `Query the version of each tool on every target host.

Without arguments every known tool is checked: go, poetry, pipenv, pip,
psql, nginx, supervisorctl, redis-cli and git. Hosts are checked
concurrently.

Examples:
  hostkit check --host web-1.example.com
  hostkit check --hcloud-selector role=web git psql --min git=2.30 --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Tools = args
			return handlers.Check(cmd.Context(), g, p)
		},
	}

	cmd.Flags().StringArrayVar(&p.Minimums, "min", nil, "Minimum version as tool=version (repeatable)")
	cmd.Flags().BoolVar(&p.Strict, "strict", false, "Fail if any checked tool is missing or outdated")

	return cmd
}
