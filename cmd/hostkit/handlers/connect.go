package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/platform/hcloud"
	"github.com/imamik/hostkit/internal/platform/ssh"
	"github.com/imamik/hostkit/internal/provisioning"
	"github.com/imamik/hostkit/internal/remote"
)

// passphraseEnv holds the passphrase of an encrypted --identity key.
const passphraseEnv = "HOSTKIT_SSH_PASSPHRASE"

// Connection is a transport to one host.
type Connection interface {
	remote.Executor
	provisioning.Dialer
	io.Closer
}

// connect builds the SSH transport for target. The first command dials.
func connect(ctx context.Context, g *GlobalOptions, target hcloud.Target, timeouts *config.Timeouts) (Connection, error) {
	if g.WaitSSH > 0 {
		if err := waitForPort(ctx, target.Addr, g.Port, g.WaitSSH, nil); err != nil {
			return nil, fmt.Errorf("SSH not reachable: %w", err)
		}
	}

	cfg := &ssh.Config{
		Host:           target.Addr,
		Port:           g.Port,
		User:           g.User,
		KnownHostsFile: g.KnownHosts,
		DialTimeout:    timeouts.Connect,
		MaxRetries:     timeouts.RetryMaxAttempts,
		RetryDelay:     timeouts.RetryInitialDelay,
	}
	if g.Identity != "" {
		key, err := readFile(g.Identity)
		if err != nil {
			return nil, fmt.Errorf("failed to read identity file: %w", err)
		}
		cfg.PrivateKey = key
		cfg.Passphrase = []byte(os.Getenv(passphraseEnv))
	}
	if os.Getenv("SSH_AUTH_SOCK") != "" {
		cfg.UseAgent = true
	}

	return newConnection(cfg)
}
