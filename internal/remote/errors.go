package remote

import (
	"errors"
	"fmt"
	"strings"
)

// RemoteCommandError reports a remote command that exited with a non-zero status.
type RemoteCommandError struct {
	Host       string
	Command    string
	ExitStatus int
	Output     string
}

func (e *RemoteCommandError) Error() string {
	var b strings.Builder
	if e.Host != "" {
		fmt.Fprintf(&b, "command failed on %s with exit status %d", e.Host, e.ExitStatus)
	} else {
		fmt.Fprintf(&b, "command failed with exit status %d", e.ExitStatus)
	}
	fmt.Fprintf(&b, "\nCommand: %s", e.Command)
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, "\nOutput: %s", out)
	}
	return b.String()
}

// IsCommandError reports whether err wraps a RemoteCommandError.
func IsCommandError(err error) bool {
	var ce *RemoteCommandError
	return errors.As(err, &ce)
}
