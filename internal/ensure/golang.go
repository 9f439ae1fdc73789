package ensure

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/util/prerequisites"
	"github.com/imamik/hostkit/internal/util/version"
)

// DefaultGoVersion is installed when no version is requested.
const DefaultGoVersion = "1.22.5"

const goDownloadMirror = "https://go.dev/dl/"

// goArch maps `uname -m` to Go's architecture names.
var goArch = map[string]string{
	"x86_64":  "amd64",
	"amd64":   "amd64",
	"aarch64": "arm64",
	"arm64":   "arm64",
	"armv7l":  "armv6l",
	"armv6l":  "armv6l",
	"i686":    "386",
	"i386":    "386",
}

// Golang installs the Go toolchain under /usr/local/go unless a version of
// at least goVersion is already there, and puts it on the login PATH. It
// returns the version found or installed.
func (h *Host) Golang(ctx context.Context, goVersion string) (string, error) {
	if goVersion == "" {
		goVersion = DefaultGoVersion
	}
	if _, err := version.Parse(goVersion); err != nil {
		return "", fmt.Errorf("invalid go version: %w", err)
	}

	res, err := prerequisites.Check(ctx, h.sess, prerequisites.Go, goVersion)
	if err != nil {
		return "", err
	}
	if res.Status == prerequisites.Satisfies {
		return res.Version, nil
	}

	machine, err := h.sess.Output(ctx, remote.Cmd("uname", "-m"))
	if err != nil {
		return "", fmt.Errorf("failed to detect architecture: %w", err)
	}
	arch, ok := goArch[strings.TrimSpace(machine)]
	if !ok {
		return "", fmt.Errorf("unsupported architecture %q", machine)
	}

	filename := fmt.Sprintf("go%s.linux-%s.tar.gz", goVersion, arch)
	tarball := path.Join("/tmp", filename)
	parent := path.Dir(prerequisites.GoRoot)

	download := remote.Cmd("wget", "-q", "-nc", "-O", tarball, goDownloadMirror+filename).
		Or(remote.Cmd("curl", "-fsSL", "-o", tarball, goDownloadMirror+filename))
	if _, err := h.sess.Run(ctx, download); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", filename, err)
	}

	extract := remote.Cmd("rm", "-rf", prerequisites.GoRoot).
		And(remote.Cmd("tar", "-C", parent, "-xzf", tarball)).
		And(remote.Cmd("rm", "-f", tarball))
	if _, err := h.sess.Run(ctx, extract, remote.Sudo()); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", filename, err)
	}

	pathLine := fmt.Sprintf(`PATH="$PATH:%s/bin"`, prerequisites.GoRoot)
	if err := h.AppendLine(ctx, "/etc/profile", pathLine); err != nil {
		return "", err
	}

	after, err := prerequisites.Check(ctx, h.sess, prerequisites.Go, goVersion)
	if err != nil {
		return "", err
	}
	if after.Status != prerequisites.Satisfies {
		return "", fmt.Errorf("go %s still not available after install (found %q)", goVersion, after.Version)
	}
	return after.Version, nil
}
