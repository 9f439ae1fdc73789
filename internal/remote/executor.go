// Package remote defines how provisioning code talks to a target host.
//
// An Executor runs raw shell lines and uploads files; it is implemented by the
// SSH client in internal/platform/ssh. A Session wraps an Executor and is the
// explicit connection object every installer and task step receives. Command
// builds shell lines with every configuration value quoted.
package remote

import (
	"context"
	"io"
	"os"
)

// Result is the outcome of a single remote command.
type Result struct {
	// Command is the shell line that was executed.
	Command string
	// Output is the combined stdout and stderr.
	Output string
	// ExitStatus is the remote exit code. Zero means success.
	ExitStatus int
}

// Succeeded reports whether the command exited with status zero.
func (r Result) Succeeded() bool {
	return r.ExitStatus == 0
}

// Failed reports whether the command exited with a non-zero status.
func (r Result) Failed() bool {
	return !r.Succeeded()
}

// Executor runs commands on one remote host.
//
// Execute returns an error only when the command could not be run at all
// (connection or session failure). A command that ran and exited non-zero is
// reported through Result.ExitStatus with a nil error.
type Executor interface {
	Execute(ctx context.Context, line string) (Result, error)
	Upload(ctx context.Context, content io.Reader, remotePath string, mode os.FileMode) error
}
