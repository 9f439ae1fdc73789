// Package tui provides a Bubble Tea-based terminal UI that follows a
// provisioning task step by step.
package tui

// StepMsg reports progress of a task step.
type StepMsg struct {
	Step string
	Done bool
	Err  error
}

// LogMsg carries one line of task output.
type LogMsg struct {
	Line string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
