package django

import (
	"fmt"
	"path"
	"strings"

	"github.com/imamik/hostkit/internal/provisioning"
	"github.com/imamik/hostkit/internal/remote"
)

// Manage returns a task running "manage.py args..." inside the project
// virtualenv with the configured settings module.
func Manage(args ...string) provisioning.Task {
	return provisioning.Task{
		Name:        "manage",
		Description: "Run a Django management command",
		Schema:      ManageSchema,
		Steps: []provisioning.Step{
			provisioning.NewStep("virtualenv", locateVirtualenv),
			provisioning.NewStep("manage", func(ctx *provisioning.Context) error {
				return runManage(ctx, args)
			}),
		},
	}
}

func runManage(ctx *provisioning.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no management command given")
	}
	root := ctx.Options.String(KeyProjectRoot)
	python := path.Join(ctx.State.VirtualenvDir, "bin", "python")

	opts := []remote.RunOption{
		remote.InDir(root),
		remote.WithEnv(KeySettingsModule, ctx.Options.String(KeySettingsModule)),
	}
	if user := ctx.Options.String(KeyAppUser); user != "" {
		opts = append(opts, remote.AsUser(user))
	}

	out, err := ctx.Session.Output(ctx, remote.Cmd(python, append([]string{"manage.py"}, args...)...), opts...)
	if err != nil {
		return fmt.Errorf("manage.py %s failed: %w", strings.Join(args, " "), err)
	}
	if out = strings.TrimRight(out, "\n"); out != "" {
		ctx.Observer.Printf("%s", out)
	}
	return nil
}
