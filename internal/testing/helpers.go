package testing

import (
	"context"
	"strings"
	"testing"
	"time"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// AssertCommandOrder fails the test unless each fragment appears in lines,
// in the given order, each one in a later line than the previous.
func AssertCommandOrder(t *testing.T, lines []string, fragments ...string) {
	t.Helper()
	next := 0
	for _, fragment := range fragments {
		found := false
		for next < len(lines) {
			line := lines[next]
			next++
			if strings.Contains(line, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a command containing %q after the previous match; commands:\n  %s",
				fragment, strings.Join(lines, "\n  "))
			return
		}
	}
}

// AssertNoCommand fails the test if any line contains fragment.
func AssertNoCommand(t *testing.T, lines []string, fragment string) {
	t.Helper()
	for _, line := range lines {
		if strings.Contains(line, fragment) {
			t.Errorf("unexpected command containing %q: %s", fragment, line)
		}
	}
}
