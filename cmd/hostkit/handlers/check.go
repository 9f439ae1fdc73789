package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/platform/hcloud"
	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/util/async"
	"github.com/imamik/hostkit/internal/util/prerequisites"
)

// checkConcurrency bounds the hosts probed at once.
const checkConcurrency = 8

var (
	// output receives command results (for testing injection).
	output io.Writer = os.Stdout

	checkOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	checkWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	checkFail = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	checkDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hostStyle = lipgloss.NewStyle().Bold(true)
)

// CheckParams selects what Check probes.
type CheckParams struct {
	// Tools are the tool names to check. Empty checks every built-in tool.
	Tools []string
	// Minimums are name=version requirements.
	Minimums []string
	// Strict fails the command when any checked tool is not usable.
	Strict bool
}

// hostReport is the check outcome for one host.
type hostReport struct {
	target  hcloud.Target
	results []prerequisites.CheckResult
	err     error
}

// Check reports which tools are installed on every target host, and in
// which version. Hosts are probed concurrently; the report lists them in
// target order.
func Check(ctx context.Context, g *GlobalOptions, p CheckParams) error {
	if err := g.validate(); err != nil {
		return err
	}

	tools, err := selectTools(p.Tools)
	if err != nil {
		return err
	}
	minimums, err := parseMinimums(p.Minimums)
	if err != nil {
		return err
	}

	targets, err := resolveTargets(ctx, g)
	if err != nil {
		return err
	}
	timeouts := loadTimeouts()

	reports := make([]hostReport, len(targets))
	var mu sync.Mutex
	tasks := make([]async.Task, len(targets))
	for i, target := range targets {
		tasks[i] = async.Task{
			Name: target.Name,
			Func: func(ctx context.Context) error {
				results, err := checkHost(ctx, g, target, tools, minimums, timeouts)
				mu.Lock()
				reports[i] = hostReport{target: target, results: results, err: err}
				mu.Unlock()
				return err
			},
		}
	}
	probeErr := async.RunParallel(ctx, tasks, checkConcurrency)

	unusable := renderCheck(output, reports)
	if probeErr != nil {
		return probeErr
	}
	if p.Strict && unusable > 0 {
		return fmt.Errorf("%d tool(s) missing or outdated", unusable)
	}
	return nil
}

func checkHost(
	ctx context.Context,
	g *GlobalOptions,
	target hcloud.Target,
	tools []prerequisites.Tool,
	minimums map[string]string,
	timeouts *config.Timeouts,
) ([]prerequisites.CheckResult, error) {
	conn, err := connect(ctx, g, target, timeouts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	sess := remote.NewSession(conn, target.Name, g.User)
	return prerequisites.CheckAll(ctx, sess, tools, minimums)
}

func selectTools(names []string) ([]prerequisites.Tool, error) {
	if len(names) == 0 {
		return prerequisites.DefaultTools(), nil
	}
	tools := make([]prerequisites.Tool, 0, len(names))
	for _, name := range names {
		t, err := prerequisites.Lookup(name)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func parseMinimums(pairs []string) (map[string]string, error) {
	minimums := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, minimum, ok := strings.Cut(pair, "=")
		if !ok || name == "" || minimum == "" {
			return nil, fmt.Errorf("invalid minimum %q: expected tool=version", pair)
		}
		if _, err := prerequisites.Lookup(name); err != nil {
			return nil, err
		}
		minimums[name] = minimum
	}
	return minimums, nil
}

// renderCheck prints one block per host and returns the number of tools
// that are absent or outdated.
func renderCheck(w io.Writer, reports []hostReport) int {
	unusable := 0
	for _, r := range reports {
		fmt.Fprintln(w, hostStyle.Render(r.target.Name)+checkDim.Render(" ("+r.target.Addr+")"))
		if r.err != nil {
			fmt.Fprintf(w, "  %s %v\n", checkFail.Render("✗"), r.err)
			continue
		}
		for _, res := range r.results {
			fmt.Fprintf(w, "  %s\n", formatResult(res))
			if !res.Status.OK() {
				unusable++
			}
		}
	}
	return unusable
}

func formatResult(res prerequisites.CheckResult) string {
	name := fmt.Sprintf("%-12s", res.Tool.Name)
	detail := res.Version
	if res.Minimum != "" {
		detail = fmt.Sprintf("%s (minimum %s)", detail, res.Minimum)
	}
	switch res.Status {
	case prerequisites.Installed, prerequisites.Satisfies:
		return checkOK.Render("✓") + " " + name + " " + strings.TrimSpace(detail)
	case prerequisites.Outdated:
		return checkWarn.Render("!") + " " + name + " " + strings.TrimSpace(detail)
	default:
		line := checkFail.Render("✗") + " " + name + " " + res.Status.String()
		if res.Tool.InstallHint != "" {
			line += checkDim.Render("  hint: " + res.Tool.InstallHint)
		}
		return line
	}
}
