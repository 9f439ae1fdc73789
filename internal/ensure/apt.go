package ensure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/util/retry"
)

var dpkgLockMessages = []string{
	"Could not get lock",
	"Unable to acquire the dpkg frontend lock",
	"Unable to lock directory",
}

// isDpkgLockError reports whether err is an apt failure caused by another
// process holding the dpkg lock.
func isDpkgLockError(err error) bool {
	var ce *remote.RemoteCommandError
	if !errors.As(err, &ce) {
		return false
	}
	for _, msg := range dpkgLockMessages {
		if strings.Contains(ce.Output, msg) {
			return true
		}
	}
	return false
}

// withDpkgLock retries op while the dpkg lock is held, up to the host's
// lock timeout.
func (h *Host) withDpkgLock(ctx context.Context, op func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, h.aptLockTimeout)
	defer cancel()

	return retry.WithExponentialBackoff(lockCtx, op,
		retry.WithMaxRetries(int(h.aptLockTimeout/h.aptRetryDelay)),
		retry.WithInitialDelay(h.aptRetryDelay),
		retry.WithMaxDelay(15*time.Second),
		retry.WithRetryIf(isDpkgLockError),
	)
}

// UpdateIndex refreshes the apt package index.
func (h *Host) UpdateIndex(ctx context.Context) error {
	err := h.withDpkgLock(ctx, func() error {
		_, err := h.sess.Run(ctx, remote.Cmd("apt-get", "update", "-q"), remote.Sudo())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update package index: %w", err)
	}
	return nil
}

// PackageInstalled reports whether a Debian package is installed.
func (h *Host) PackageInstalled(ctx context.Context, pkg string) (bool, error) {
	out, err := h.sess.Run(ctx,
		remote.Cmd("dpkg-query", "-W", "-f=${Status}", pkg),
		remote.AllowFailure())
	if err != nil {
		return false, err
	}
	return out.Succeeded() && strings.Contains(out.Output, "install ok installed"), nil
}

// Packages installs the packages that are not installed yet, in one apt run.
func (h *Host) Packages(ctx context.Context, pkgs ...string) error {
	var missing []string
	for _, pkg := range pkgs {
		ok, err := h.PackageInstalled(ctx, pkg)
		if err != nil {
			return fmt.Errorf("failed to query package %s: %w", pkg, err)
		}
		if !ok {
			missing = append(missing, pkg)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	install := remote.Cmd("apt-get", "install", "-y", "-q", "--no-install-recommends").Arg(missing...)
	err := h.withDpkgLock(ctx, func() error {
		_, err := h.sess.Run(ctx, install, remote.Sudo(), remote.WithEnv("DEBIAN_FRONTEND", "noninteractive"))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", strings.Join(missing, ", "), err)
	}
	return nil
}
