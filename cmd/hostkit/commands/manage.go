package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
	"github.com/imamik/hostkit/internal/provisioning/django"
)

// Manage returns the command that runs a Django management command on the
// host. Arguments after "--" are passed to manage.py unchanged.
func Manage(g *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "manage -- <command> [args...]",
		Short: "Run a Django management command",
		Long: `Run manage.py inside the project virtualenv.

The command runs in project_root as app_user with DJANGO_SETTINGS_MODULE set.
Its output is printed when it finishes.

Examples:
  hostkit manage --host web-1.example.com -o shop.yaml -- migrate --noinput
  hostkit manage --host web-1.example.com -o shop.yaml -- collectstatic --noinput`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.RunTask(cmd.Context(), g, django.Manage(args...))
		},
	}
}
