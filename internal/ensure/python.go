package ensure

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/util/prerequisites"
)

// pythonBasePackages are the Debian packages pip and virtualenvs need.
var pythonBasePackages = []string{"python3", "python3-pip", "python3-venv", "python3-dev"}

// Pip makes sure pip is available for python3.
func (h *Host) Pip(ctx context.Context) error {
	res, err := prerequisites.Check(ctx, h.sess, prerequisites.Pip, "")
	if err != nil {
		return err
	}
	if res.Status.OK() {
		return nil
	}
	return h.Packages(ctx, pythonBasePackages...)
}

// PythonPackage installs a package system-wide with pip unless pip already
// lists it.
func (h *Host) PythonPackage(ctx context.Context, name string) error {
	ok, err := h.sess.Succeeds(ctx, remote.Cmd("python3", "-m", "pip", "show", "-q", name))
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	install := remote.Cmd("python3", "-m", "pip", "install", "-q", "--break-system-packages", name).
		Or(remote.Cmd("python3", "-m", "pip", "install", "-q", name))
	if _, err := h.sess.Run(ctx, install, remote.Sudo()); err != nil {
		return fmt.Errorf("failed to install python package %s: %w", name, err)
	}
	return nil
}

// Poetry installs poetry when the checker does not find it.
func (h *Host) Poetry(ctx context.Context) error {
	return h.pythonTool(ctx, prerequisites.Poetry)
}

// Pipenv installs pipenv when the checker does not find it.
func (h *Host) Pipenv(ctx context.Context) error {
	return h.pythonTool(ctx, prerequisites.Pipenv)
}

func (h *Host) pythonTool(ctx context.Context, tool prerequisites.Tool) error {
	if err := h.Pip(ctx); err != nil {
		return err
	}
	res, err := prerequisites.Check(ctx, h.sess, tool, "")
	if err != nil {
		return err
	}
	if res.Status.OK() {
		return nil
	}
	return h.PythonPackage(ctx, tool.Name)
}

// VirtualenvDir returns the virtualenv poetry created for the project in
// dir, as seen by user.
func (h *Host) VirtualenvDir(ctx context.Context, dir, user string) (string, error) {
	out, err := h.sess.Output(ctx, remote.Cmd("poetry", "env", "info", "--path"),
		remote.AsUser(user), remote.InDir(dir))
	if err != nil {
		return "", fmt.Errorf("failed to locate virtualenv for %s: %w", dir, err)
	}

	// poetry may colour its output even without a terminal.
	lines := strings.Split(strings.TrimSpace(ansi.Strip(out)), "\n")
	venv := strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(venv, "/") {
		return "", fmt.Errorf("unexpected virtualenv path %q for %s", venv, dir)
	}
	return venv, nil
}
