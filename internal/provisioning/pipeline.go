package provisioning

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/hostkit/internal/config"
)

// RunState is the position of a task run in its linear pipeline.
type RunState int

const (
	// StateUnvalidated is the state before the options were checked.
	StateUnvalidated RunState = iota
	// StateValidated means every required option key is present.
	StateValidated
	// StateRunning means at least one step has started.
	StateRunning
	// StateComplete means every step finished.
	StateComplete
	// StateFailed is absorbing: validation or a step failed.
	StateFailed
)

// String returns the lowercase state name.
func (s RunState) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateValidated:
		return "validated"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Task is a named, ordered sequence of steps parameterized by options.
type Task struct {
	Name        string
	Description string
	Schema      config.Schema
	Steps       []Step
}

// With returns a copy of t with extra steps appended after the base sequence.
func (t Task) With(extra ...Step) Task {
	steps := make([]Step, 0, len(t.Steps)+len(extra))
	steps = append(steps, t.Steps...)
	steps = append(steps, extra...)
	t.Steps = steps
	return t
}

// StepNames returns the step names in execution order.
func (t Task) StepNames() []string {
	names := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		names[i] = s.Name()
	}
	return names
}

// StepError reports which step of a task failed.
type StepError struct {
	Task  string
	Step  string
	Index int // 1-based position of the step
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s step failed: %v", e.Task, e.Step, e.Err)
}

// Unwrap returns the underlying step error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Report describes the outcome of a task run.
type Report struct {
	Task      string
	Host      string
	State     RunState
	Completed []string
	// Failed is the name of the failing step, empty if validation failed or
	// the run completed.
	Failed   string
	Warnings []config.ValidationError
	Duration time.Duration
	Err      error
}

// Run validates ctx.Options against the task schema and then executes the
// steps strictly in order. Validation failure issues no remote command. The
// first failing step aborts the run and is reported as a *StepError.
func (t Task) Run(ctx *Context) (*Report, error) {
	start := time.Now()
	report := &Report{Task: t.Name, State: StateUnvalidated}
	if ctx.Session != nil {
		report.Host = ctx.Session.Host()
	}
	finish := func(state RunState, err error) (*Report, error) {
		report.State = state
		report.Err = err
		report.Duration = time.Since(start)
		ctx.Metrics.ObserveTask(t.Name, report.Host, state)
		return report, err
	}

	warnings, err := validateOptions(ctx, t)
	report.Warnings = warnings
	if err != nil {
		ctx.Observer.Event(Event{Type: EventTaskFailed, Resource: report.Host, Message: err.Error()})
		return finish(StateFailed, err)
	}
	report.State = StateValidated

	ctx.Observer.Printf("Starting %s with %d steps...", t.Name, len(t.Steps))
	if len(t.Steps) > 0 {
		report.State = StateRunning
	}

	for i, step := range t.Steps {
		if err := ctx.Err(); err != nil {
			serr := &StepError{Task: t.Name, Step: step.Name(), Index: i + 1, Err: err}
			report.Failed = step.Name()
			return finish(StateFailed, serr)
		}

		stepStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", step.Name(), i+1, len(t.Steps))

		ctx.Observer.Printf("[%s] starting", name)

		if err := step.Provision(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", name, err)
			ctx.Metrics.ObserveStep(t.Name, step.Name(), time.Since(stepStart).Seconds(), true)
			report.Failed = step.Name()
			return finish(StateFailed, &StepError{Task: t.Name, Step: step.Name(), Index: i + 1, Err: err})
		}

		ctx.Metrics.ObserveStep(t.Name, step.Name(), time.Since(stepStart).Seconds(), false)
		report.Completed = append(report.Completed, step.Name())
		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(stepStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("%s completed in %v", t.Name, time.Since(start).Round(time.Millisecond))
	return finish(StateComplete, nil)
}

// IsStepError reports whether err came from a failing step, as opposed to
// option validation.
func IsStepError(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}
