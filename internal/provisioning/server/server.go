package server

import (
	"fmt"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/provisioning"
)

const environmentFile = "/etc/environment"

// Option keys read by the server tasks.
const (
	KeyGoVersion   = "go_version"
	KeyPythonTools = "python_tools"
)

// PrepareHost returns the step that keeps systemd from paging its output,
// which hangs non-interactive SSH sessions driving supervisor.
func PrepareHost() provisioning.Step {
	return provisioning.NewStep("prepare-host", func(ctx *provisioning.Context) error {
		return ctx.Host.AppendLine(ctx, environmentFile, "SYSTEMD_PAGER=''")
	})
}

// InstallGo returns the step that installs the toolchain named by go_version
// (default ensure.DefaultGoVersion) when it is absent or older.
func InstallGo() provisioning.Step {
	return provisioning.NewStep("golang", func(ctx *provisioning.Context) error {
		want := ctx.Options.StringOr(KeyGoVersion, ensure.DefaultGoVersion)
		got, err := ctx.Host.Golang(ctx, want)
		if err != nil {
			return err
		}
		ctx.State.GoVersion = got
		ctx.Observer.Printf("[golang] go %s available (wanted >= %s)", got, want)
		return nil
	})
}

// InstallPythonTools returns the step that installs pip and every tool listed
// in python_tools (default poetry).
func InstallPythonTools() provisioning.Step {
	return provisioning.NewStep("python-tools", func(ctx *provisioning.Context) error {
		tools := ctx.Options.Strings(KeyPythonTools)
		if len(tools) == 0 {
			tools = []string{"poetry"}
		}
		if err := ctx.Host.Pip(ctx); err != nil {
			return err
		}
		for _, tool := range tools {
			var err error
			switch tool {
			case "poetry":
				err = ctx.Host.Poetry(ctx)
			case "pipenv":
				err = ctx.Host.Pipenv(ctx)
			case "pip":
			default:
				return fmt.Errorf("unsupported python tool %q (want poetry or pipenv)", tool)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// PrepTask prepares a fresh host.
func PrepTask() provisioning.Task {
	return provisioning.Task{
		Name:        "prep",
		Description: "Prepare the host environment for non-interactive provisioning",
		Steps:       []provisioning.Step{PrepareHost()},
	}
}

// GolangTask installs the Go toolchain.
func GolangTask() provisioning.Task {
	return provisioning.Task{
		Name:        "golang",
		Description: "Install the Go toolchain under /usr/local/go",
		Schema:      config.Schema{Optional: []string{KeyGoVersion}},
		Steps:       []provisioning.Step{InstallGo()},
	}
}

// PythonToolsTask installs pip and python packaging tools.
func PythonToolsTask() provisioning.Task {
	return provisioning.Task{
		Name:        "python-tools",
		Description: "Install pip and poetry or pipenv",
		Schema:      config.Schema{Optional: []string{KeyPythonTools}},
		Steps:       []provisioning.Step{InstallPythonTools()},
	}
}
