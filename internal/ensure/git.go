package ensure

import (
	"context"
	"fmt"
	"path"

	"github.com/imamik/hostkit/internal/remote"
)

// GitCheckout describes a working copy to maintain.
type GitCheckout struct {
	URL    string
	Path   string
	Branch string // empty keeps the remote default
	User   string
	Group  string
}

// GitWorkingCopy clones the repository, or pulls it when a working copy is
// already present. Git runs as the checkout user.
func (h *Host) GitWorkingCopy(ctx context.Context, co GitCheckout) error {
	if err := h.Packages(ctx, "git"); err != nil {
		return err
	}

	exists, err := h.sess.Succeeds(ctx, remote.Cmd("test", "-d", path.Join(co.Path, ".git")))
	if err != nil {
		return err
	}

	var opts []remote.RunOption
	if co.User != "" {
		opts = append(opts, remote.AsUser(co.User))
	}

	if exists {
		pull := remote.Cmd("git", "-C", co.Path, "fetch", "--quiet", "origin")
		if co.Branch != "" {
			pull = pull.And(remote.Cmd("git", "-C", co.Path, "checkout", "--quiet", co.Branch))
		}
		pull = pull.And(remote.Cmd("git", "-C", co.Path, "pull", "--quiet", "--ff-only"))
		if _, err := h.sess.Run(ctx, pull, opts...); err != nil {
			return fmt.Errorf("failed to update %s: %w", co.Path, err)
		}
		return nil
	}

	if err := h.Directory(ctx, co.Path, co.User, co.Group, 0o755); err != nil {
		return err
	}
	clone := remote.Cmd("git", "clone", "--quiet")
	if co.Branch != "" {
		clone = clone.Arg("--branch", co.Branch)
	}
	clone = clone.Arg(co.URL, co.Path)
	if _, err := h.sess.Run(ctx, clone, opts...); err != nil {
		return fmt.Errorf("failed to clone %s: %w", co.URL, err)
	}
	return nil
}
