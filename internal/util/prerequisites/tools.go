package prerequisites

import (
	"fmt"
	"regexp"

	"github.com/imamik/hostkit/internal/remote"
)

// GoRoot is where the Go toolchain is installed.
const GoRoot = "/usr/local/go"

// Built-in tools. Each version query runs through a non-login shell, so Go is
// looked up under GoRoot explicitly.
var (
	Go = Tool{
		Name:           "go",
		VersionCommand: remote.Raw(`PATH="$PATH:` + GoRoot + `/bin" go version`),
		VersionPattern: regexp.MustCompile(`go version go(?P<version>\S+)`),
		InstallHint:    "hostkit golang",
	}

	Poetry = Tool{
		Name:           "poetry",
		VersionCommand: remote.Cmd("poetry", "--version"),
		VersionPattern: regexp.MustCompile(`Poetry (?:\(version |version )(?P<version>[^\s)]+)`),
		InstallHint:    "hostkit python-tools",
	}

	Pipenv = Tool{
		Name:           "pipenv",
		VersionCommand: remote.Cmd("pipenv", "--version"),
		VersionPattern: regexp.MustCompile(`pipenv,? version (?P<version>\S+)`),
		InstallHint:    "hostkit python-tools --pipenv",
	}

	Pip = Tool{
		Name:           "pip",
		VersionCommand: remote.Cmd("python3", "-m", "pip", "--version"),
		VersionPattern: regexp.MustCompile(`pip (?P<version>\S+) from`),
		InstallHint:    "hostkit python-tools",
	}

	Psql = Tool{
		Name:           "psql",
		VersionCommand: remote.Cmd("psql", "--version"),
		VersionPattern: regexp.MustCompile(`psql \(PostgreSQL\) (?P<version>[\d.]+)`),
		InstallHint:    "hostkit deploy",
	}

	Nginx = Tool{
		Name:           "nginx",
		VersionCommand: remote.Cmd("nginx", "-v"),
		VersionPattern: regexp.MustCompile(`nginx/(?P<version>[\d.]+)`),
		InstallHint:    "hostkit deploy",
	}

	Supervisor = Tool{
		Name:           "supervisorctl",
		VersionCommand: remote.Cmd("supervisorctl", "version"),
		VersionPattern: regexp.MustCompile(`(?m)^(?P<version>\d+(?:\.\d+)*)\s*$`),
		InstallHint:    "hostkit deploy",
	}

	RedisCLI = Tool{
		Name:           "redis-cli",
		VersionCommand: remote.Cmd("redis-cli", "--version"),
		VersionPattern: regexp.MustCompile(`redis-cli (?P<version>[\d.]+)`),
		InstallHint:    "server_debs_extra: [redis-server]",
	}

	Git = Tool{
		Name:           "git",
		VersionCommand: remote.Cmd("git", "--version"),
		VersionPattern: regexp.MustCompile(`git version (?P<version>[\d.]+)`),
		InstallHint:    "hostkit deploy",
	}
)

// DefaultTools returns the built-in tools in display order.
func DefaultTools() []Tool {
	return []Tool{Go, Poetry, Pipenv, Pip, Psql, Nginx, Supervisor, RedisCLI, Git}
}

// Lookup returns the built-in tool with the given name.
func Lookup(name string) (Tool, error) {
	for _, t := range DefaultTools() {
		if t.Name == name {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("unknown tool %q", name)
}
