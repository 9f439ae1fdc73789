package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
	"github.com/imamik/hostkit/internal/provisioning"
	"github.com/imamik/hostkit/internal/provisioning/django"
)

// taskCommand builds a command that runs task on the target hosts.
func taskCommand(g *handlers.GlobalOptions, use, short, long string, task func() provisioning.Task) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.RunTask(cmd.Context(), g, task())
		},
	}
}

// Deploy returns the command that deploys a Django project.
func Deploy(g *handlers.GlobalOptions) *cobra.Command {
	return taskCommand(g, "deploy", "Deploy a Django project behind nginx, gunicorn and supervisor",
		`Deploy a Django project.

Installs system packages, PostgreSQL and poetry, creates the database role
and database, checks out the project, installs its dependencies, uploads
TLS certificates and configures nginx and supervisor. Finally the gunicorn
program is restarted.

Every required option must be present before anything runs on the host.

Examples:
  hostkit deploy --host web-1.example.com -o shop.yaml --env-file .env
  hostkit deploy --hcloud-selector role=web -o shop.yaml --set project_branch=release`,
		django.Deploy)
}

// Update returns the command that pulls new code and restarts the app.
func Update(g *handlers.GlobalOptions) *cobra.Command {
	return taskCommand(g, "update", "Update the project checkout and restart gunicorn",
		`Update a deployed project.

Pulls the configured branch into project_root as app_user and restarts the
supervisor program named after the project.

Examples:
  hostkit update --host web-1.example.com -o shop.yaml`,
		django.Update)
}

// FlushCache returns the command that deletes a redis key namespace.
func FlushCache(g *handlers.GlobalOptions) *cobra.Command {
	return taskCommand(g, "flush-cache", "Delete every redis key under a namespace",
		`Delete every key matching "<redis_namespace>:*" in redis_db.

By default redis-cli runs on the host. With redis_tunnel=true the keys are
scanned and deleted through an SSH-forwarded connection instead.

Examples:
  hostkit flush-cache --host web-1.example.com --set redis_db=0 --set redis_namespace=sessions`,
		django.FlushCache)
}
