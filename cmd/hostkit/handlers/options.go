package handlers

import (
	"fmt"
	"time"

	"github.com/imamik/hostkit/internal/config"
)

// GlobalOptions holds the flags shared by every command that talks to a host.
type GlobalOptions struct {
	// Targets
	Hosts          []string
	HCloudServers  []string
	HCloudSelector string

	// SSH
	User       string
	Port       int
	Identity   string
	KnownHosts string
	WaitSSH    time.Duration

	// Task options
	OptionsFile string
	EnvFile     string
	Sets        []string
	// Overrides are set by command flags and win over every other source.
	Overrides config.Options

	// Output
	MetricsFile string
	JSONLogs    bool
	Verbosity   int
	TUI         bool
}

// DefaultGlobalOptions returns the flag defaults.
func DefaultGlobalOptions() *GlobalOptions {
	return &GlobalOptions{
		User: "root",
		Port: 22,
	}
}

func (g *GlobalOptions) validate() error {
	if g.User == "" {
		return fmt.Errorf("--user cannot be empty")
	}
	if g.Port < 1 || g.Port > 65535 {
		return fmt.Errorf("--port must be between 1 and 65535, got %d", g.Port)
	}
	if len(g.Hosts) == 0 && len(g.HCloudServers) == 0 && g.HCloudSelector == "" {
		return fmt.Errorf("no target host: use --host, --hcloud-server or --hcloud-selector")
	}
	return nil
}
