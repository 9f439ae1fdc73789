package ensure

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"

	"github.com/imamik/hostkit/internal/remote"
)

// Directory creates dir with the given owner and mode. Empty owner or group
// leaves ownership alone.
func (h *Host) Directory(ctx context.Context, dir, owner, group string, mode os.FileMode) error {
	cmd := remote.Cmd("mkdir", "-p", dir).
		And(remote.Cmd("chmod", fmt.Sprintf("%04o", mode.Perm()), dir))
	if owner != "" {
		spec := owner
		if group != "" {
			spec += ":" + group
		}
		cmd = cmd.And(remote.Cmd("chown", spec, dir))
	}
	if _, err := h.sess.Run(ctx, cmd, remote.Sudo()); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// AppendLine appends line to file unless the file already contains it as a
// whole line.
func (h *Host) AppendLine(ctx context.Context, file, line string) error {
	cmd := remote.Cmd("grep", "-qsxF", "--", line, file).
		Or(remote.Cmd("printf", `%s\n`, line).Append(">> " + remote.Quote(file)))
	if _, err := h.sess.Run(ctx, cmd, remote.Sudo()); err != nil {
		return fmt.Errorf("failed to append to %s: %w", file, err)
	}
	return nil
}

// File writes content to dst unless it already has exactly that content,
// then applies owner and mode. It reports whether the file changed.
func (h *Host) File(ctx context.Context, dst string, content []byte, owner string, mode os.FileMode) (bool, error) {
	current, err := h.sess.Run(ctx, remote.Cmd("cat", dst), remote.Sudo(), remote.AllowFailure())
	if err != nil {
		return false, err
	}
	if current.Succeeded() && current.Output == string(content) {
		return false, nil
	}

	if _, err := h.sess.Run(ctx, remote.Cmd("mkdir", "-p", path.Dir(dst)), remote.Sudo()); err != nil {
		return false, fmt.Errorf("failed to create parent of %s: %w", dst, err)
	}
	if err := h.sess.Upload(ctx, bytes.NewReader(content), dst, mode, remote.Sudo()); err != nil {
		return false, err
	}
	if owner != "" {
		if _, err := h.sess.Run(ctx, remote.Cmd("chown", owner, dst), remote.Sudo()); err != nil {
			return false, fmt.Errorf("failed to set owner of %s: %w", dst, err)
		}
	}
	return true, nil
}
