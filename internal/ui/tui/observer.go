package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/hostkit/internal/provisioning"
)

// Observer forwards task events to a running dashboard.
type Observer struct {
	send func(tea.Msg)
}

var _ provisioning.Observer = (*Observer)(nil)

// NewObserver creates an Observer delivering messages through send,
// typically (*tea.Program).Send.
func NewObserver(send func(tea.Msg)) *Observer {
	return &Observer{send: send}
}

// Printf implements provisioning.Observer.
func (o *Observer) Printf(format string, args ...any) {
	o.send(LogMsg{Line: fmt.Sprintf(format, args...)})
}

// Event implements provisioning.Observer.
func (o *Observer) Event(e provisioning.Event) {
	switch e.Type {
	case provisioning.EventStepStarted:
		o.send(StepMsg{Step: e.Step})
	case provisioning.EventStepCompleted:
		o.send(StepMsg{Step: e.Step, Done: true})
	case provisioning.EventStepFailed:
		o.send(StepMsg{Step: e.Step, Err: errors.New(e.Message)})
	case provisioning.EventValidationError, provisioning.EventValidationWarning:
		o.send(LogMsg{Line: e.Message})
	}
}

// Progress implements provisioning.Observer.
func (o *Observer) Progress(string, int, int) {}

// WithFields implements provisioning.Observer. The dashboard shows no
// structured fields.
func (o *Observer) WithFields(map[string]string) provisioning.Observer {
	return o
}
