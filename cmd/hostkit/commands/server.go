package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/provisioning/server"
)

// Prep returns the command that prepares a fresh host.
func Prep(g *handlers.GlobalOptions) *cobra.Command {
	return taskCommand(g, "prep", "Prepare a fresh host for provisioning",
		`Prepare a fresh host.

Disables the systemd pager in /etc/environment so supervisor and systemctl
never block a non-interactive session.`,
		server.PrepTask)
}

// Golang returns the command that installs the Go toolchain.
//
// Optional flags:
//
//	--version: Minimum Go version (overrides go_version)
func Golang(g *handlers.GlobalOptions) *cobra.Command {
	var goVersion string

	cmd := taskCommand(g, "golang", "Install the Go toolchain",
		`Install Go under /usr/local/go unless a version at least as new is present.

Examples:
  hostkit golang --host build-1.example.com
  hostkit golang --host build-1.example.com --version 1.23.1`,
		server.GolangTask)

	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if goVersion != "" {
			g.Overrides = config.Options{server.KeyGoVersion: goVersion}
		}
		return run(cmd, args)
	}
	cmd.Flags().StringVar(&goVersion, "version", "", "Minimum Go version (default: go_version option or "+ensure.DefaultGoVersion+")")

	return cmd
}

// PythonTools returns the command that installs pip, poetry and pipenv.
//
// Optional flags:
//
//	--tool: poetry or pipenv, repeatable (overrides python_tools)
func PythonTools(g *handlers.GlobalOptions) *cobra.Command {
	var tools []string

	cmd := taskCommand(g, "python-tools", "Install pip and python packaging tools",
		`Install pip and the packaging tools listed in python_tools (default poetry).

Examples:
  hostkit python-tools --host web-1.example.com --tool poetry --tool pipenv`,
		server.PythonToolsTask)

	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(tools) > 0 {
			g.Overrides = config.Options{server.KeyPythonTools: tools}
		}
		return run(cmd, args)
	}
	cmd.Flags().StringArrayVar(&tools, "tool", nil, "Tool to install: poetry or pipenv (repeatable)")

	return cmd
}
