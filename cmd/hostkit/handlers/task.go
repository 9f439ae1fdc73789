package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/platform/hcloud"
	"github.com/imamik/hostkit/internal/platform/ssh"
	"github.com/imamik/hostkit/internal/provisioning"
	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/ui/tui"
	"github.com/imamik/hostkit/internal/util/netutil"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadOptions merges the options file, env file and --set overrides.
	loadOptions = config.Load

	// loadTimeouts reads timeout settings from the environment.
	loadTimeouts = config.LoadTimeouts

	// newResolver creates the Hetzner Cloud lookup from HCLOUD_TOKEN.
	newResolver = func() (targetResolver, error) {
		return hcloud.NewResolverFromEnv()
	}

	// newConnection creates an SSH client. No connection is made.
	newConnection = func(cfg *ssh.Config) (Connection, error) {
		return ssh.NewClient(cfg)
	}

	// waitForPort blocks until the SSH port accepts connections.
	waitForPort = netutil.WaitForPort

	// readFile reads the identity file (for testing injection).
	readFile = os.ReadFile

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// runTUI runs a task behind the interactive dashboard.
	runTUI = tui.RunTaskTUI

	// logOutput receives console and JSON logs.
	logOutput io.Writer = os.Stderr
)

// RunTask runs task on every target host, one host after another.
//
// This function orchestrates a complete run:
//  1. Loads options from the options file, env file and --set overrides
//  2. Resolves the target hosts (--host, --hcloud-server, --hcloud-selector)
//  3. Connects to each host over SSH and runs the task steps in order
//  4. Stops at the first host that fails
//  5. Writes the metrics textfile if --metrics-file is set, even on failure
//
// Validation errors are reported before any host is contacted.
func RunTask(ctx context.Context, g *GlobalOptions, task provisioning.Task) error {
	if err := g.validate(); err != nil {
		return err
	}

	opts, err := loadOptions(config.LoadParams{
		OptionsFile: g.OptionsFile,
		EnvFile:     g.EnvFile,
		Sets:        g.Sets,
	})
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}
	opts = opts.Merge(g.Overrides)
	if err := task.Schema.Validate(opts); err != nil {
		var cerr *config.ConfigurationError
		if errors.As(err, &cerr) {
			cerr.Task = task.Name
		}
		return err
	}

	targets, err := resolveTargets(ctx, g)
	if err != nil {
		return err
	}

	metrics := provisioning.NewMetrics()
	observer := newObserver(g)
	timeouts := loadTimeouts()

	runErr := runOnTargets(ctx, g, task, opts, targets, observer, metrics, timeouts)

	if g.MetricsFile != "" {
		if err := metrics.WriteTextfile(g.MetricsFile); err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	return runErr
}

func runOnTargets(
	ctx context.Context,
	g *GlobalOptions,
	task provisioning.Task,
	opts config.Options,
	targets []hcloud.Target,
	observer provisioning.Observer,
	metrics *provisioning.Metrics,
	timeouts *config.Timeouts,
) error {
	for i, target := range targets {
		hostObserver := observer.WithFields(map[string]string{"host": target.Name})
		if len(targets) > 1 {
			hostObserver.Printf("Host %d/%d: %s", i+1, len(targets), target.Name)
		}
		if err := runOnHost(ctx, g, task, opts, target, hostObserver, metrics, timeouts); err != nil {
			return fmt.Errorf("%s: %w", target.Name, err)
		}
	}
	return nil
}

func runOnHost(
	ctx context.Context,
	g *GlobalOptions,
	task provisioning.Task,
	opts config.Options,
	target hcloud.Target,
	observer provisioning.Observer,
	metrics *provisioning.Metrics,
	timeouts *config.Timeouts,
) error {
	conn, err := connect(ctx, g, target, timeouts)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Task)
	defer cancel()

	run := func(ctx context.Context, obs provisioning.Observer) error {
		sess := remote.NewSession(conn, target.Name, g.User)
		pctx := provisioning.NewContext(ctx, opts, sess, obs, ensure.WithAptLockTimeout(timeouts.AptLock))
		pctx.Metrics = metrics
		pctx.Timeouts = timeouts
		pctx.Dialer = conn

		_, err := task.Run(pctx)
		return err
	}

	if g.TUI && isTerminal() {
		return runTUI(ctx, target.Name, task.Name, task.StepNames(), run)
	}
	return run(ctx, observer)
}

func newObserver(g *GlobalOptions) provisioning.Observer {
	if g.JSONLogs {
		return provisioning.NewJSONObserver(logOutput, g.Verbosity)
	}
	return provisioning.NewConsoleObserver(logOutput, g.Verbosity)
}
