// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
)

// Root returns the root command for the hostkit CLI.
//
// The root command owns the flags shared by every command that talks to a
// host: target selection, SSH settings, option sources and output.
func Root() *cobra.Command {
	g := handlers.DefaultGlobalOptions()

	cmd := &cobra.Command{
		Use:           "hostkit",
		Short:         "Provision Django hosts over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindGlobalFlags(cmd, g)

	// Application tasks
	cmd.AddCommand(Deploy(g))
	cmd.AddCommand(Update(g))
	cmd.AddCommand(FlushCache(g))
	cmd.AddCommand(Manage(g))

	// Host tasks
	cmd.AddCommand(Prep(g))
	cmd.AddCommand(Golang(g))
	cmd.AddCommand(PythonTools(g))
	cmd.AddCommand(Check(g))

	// Utility commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Keygen())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

func bindGlobalFlags(cmd *cobra.Command, g *handlers.GlobalOptions) {
	f := cmd.PersistentFlags()

	f.StringArrayVar(&g.Hosts, "host", nil, "Target host name or address (repeatable)")
	f.StringArrayVar(&g.HCloudServers, "hcloud-server", nil, "Hetzner Cloud server name to target (repeatable, needs HCLOUD_TOKEN)")
	f.StringVar(&g.HCloudSelector, "hcloud-selector", "", "Target every Hetzner Cloud server matching this label selector")

	f.StringVar(&g.User, "user", g.User, "SSH user")
	f.IntVar(&g.Port, "port", g.Port, "SSH port")
	f.StringVar(&g.Identity, "identity", "", "Private key file (default: ssh-agent)")
	f.StringVar(&g.KnownHosts, "known-hosts", "", "known_hosts file for host key verification")
	f.DurationVar(&g.WaitSSH, "wait-ssh", 0, "Wait up to this long for the SSH port to open")

	f.StringVarP(&g.OptionsFile, "options", "o", "", "Options YAML file")
	f.StringVar(&g.EnvFile, "env-file", "", "dotenv file with additional options, usually secrets")
	f.StringArrayVar(&g.Sets, "set", nil, "Override an option as key=value (repeatable)")

	f.StringVar(&g.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	f.BoolVar(&g.JSONLogs, "json-logs", false, "Log JSON lines instead of text")
	f.CountVarP(&g.Verbosity, "verbose", "v", "Log remote commands (-v) and debug events (-vv)")
	f.BoolVar(&g.TUI, "tui", false, "Show a live step dashboard when attached to a terminal")
}
