// Package prerequisites probes a remote host for installed tools and their
// versions.
//
// A probe never fails because of the tool: a version query that exits
// non-zero, output that does not match the tool's pattern, or a version
// string that cannot be parsed all report the tool as Absent, so callers
// reinstall instead of trusting a tool they could not identify. Only
// transport failures are returned as errors.
package prerequisites

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/util/version"
)

// Runner runs a command on the target host. *remote.Session implements it.
type Runner interface {
	Run(ctx context.Context, cmd remote.Command, opts ...remote.RunOption) (remote.Result, error)
}

// Status is the outcome of a presence check.
type Status int

const (
	// Absent means the tool is missing or could not be identified.
	Absent Status = iota
	// Installed means the tool answered and no minimum was requested.
	Installed
	// Satisfies means the installed version is at least the minimum.
	Satisfies
	// Outdated means the installed version is below the minimum.
	Outdated
)

func (s Status) String() string {
	switch s {
	case Installed:
		return "installed"
	case Satisfies:
		return "satisfies"
	case Outdated:
		return "outdated"
	default:
		return "absent"
	}
}

// OK reports whether the tool can be used as is.
func (s Status) OK() bool {
	return s == Installed || s == Satisfies
}

// Tool describes how to query a tool's version on the remote host.
type Tool struct {
	// Name is the binary name.
	Name string

	// VersionCommand prints the version. Its output is matched against
	// VersionPattern.
	VersionCommand remote.Command

	// VersionPattern extracts the version. The group named "version" is
	// used, or the first group if there is none.
	VersionPattern *regexp.Regexp

	// InstallHint is shown when the tool is absent.
	InstallHint string
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Status  Status
	Version string
	Minimum string
}

// Check queries tool on the host and compares it against minimum, which may
// be empty. An invalid minimum is a programming error and is returned as one.
func Check(ctx context.Context, r Runner, tool Tool, minimum string) (CheckResult, error) {
	result := CheckResult{Tool: tool, Minimum: minimum}

	var min version.Version
	if minimum != "" {
		var err error
		min, err = version.Parse(minimum)
		if err != nil {
			return result, fmt.Errorf("invalid minimum version for %s: %w", tool.Name, err)
		}
	}

	res, err := r.Run(ctx, tool.VersionCommand, remote.AllowFailure())
	if err != nil {
		return result, fmt.Errorf("failed to query %s version: %w", tool.Name, err)
	}
	if res.Failed() {
		return result, nil
	}

	result.Version = tool.ExtractVersion(res.Output)

	if minimum == "" {
		result.Status = Installed
		return result, nil
	}

	if result.Version == "" {
		return result, nil
	}
	installed, err := version.Parse(result.Version)
	if err != nil {
		return result, nil
	}

	if installed.AtLeast(min) {
		result.Status = Satisfies
	} else {
		result.Status = Outdated
	}
	return result, nil
}

// CheckAll checks every tool in order. minimums maps tool names to minimum
// versions; tools without an entry are only checked for presence.
func CheckAll(ctx context.Context, r Runner, tools []Tool, minimums map[string]string) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(tools))
	for _, tool := range tools {
		res, err := Check(ctx, r, tool, minimums[tool.Name])
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ExtractVersion returns the version matched in output, or "".
func (t Tool) ExtractVersion(output string) string {
	if t.VersionPattern == nil {
		return ""
	}
	m := t.VersionPattern.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	if i := t.VersionPattern.SubexpIndex("version"); i > 0 {
		return strings.TrimSpace(m[i])
	}
	if len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
