package provisioning

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a formatted progress message.
	Printf(format string, v ...interface{})

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a step
	Progress(step string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step name (e.g., "nginx", "checkout")
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventTaskStarted indicates a task run has started.
	EventTaskStarted EventType = "task.started"
	// EventTaskCompleted indicates every step of a task completed.
	EventTaskCompleted EventType = "task.completed"
	// EventTaskFailed indicates a task run failed.
	EventTaskFailed EventType = "task.failed"

	// EventStepStarted indicates a provisioning step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a provisioning step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a provisioning step failed.
	EventStepFailed EventType = "step.failed"

	// EventResourceChanged indicates a file, package or service was changed.
	EventResourceChanged EventType = "resource.changed"
	// EventResourceUnchanged indicates a resource was already in the desired state.
	EventResourceUnchanged EventType = "resource.unchanged"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"

	// EventCommand records a command executed on the host.
	EventCommand EventType = "command"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// debugEvents are only logged at verbosity 1 and above.
var debugEvents = map[EventType]bool{
	EventCommand:  true,
	EventProgress: true,
}

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log logr.Logger
}

// NewObserver creates an observer that writes to log.
func NewObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// NopObserver returns an observer that discards everything.
func NopObserver() *LogObserver {
	return NewObserver(logr.Discard())
}

// NewConsoleObserver creates an observer that writes one plain text line per
// message to w. Commands are included when verbosity is 1 or higher.
func NewConsoleObserver(w io.Writer, verbosity int) *LogObserver {
	return NewObserver(funcr.New(func(prefix, args string) {
		line := args
		if prefix != "" {
			line = prefix + ": " + args
		}
		_, _ = fmt.Fprintln(w, line)
	}, funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "15:04:05",
		Verbosity:       verbosity,
	}))
}

// NewJSONObserver creates an observer that writes one JSON object per line to w.
func NewJSONObserver(w io.Writer, verbosity int) *LogObserver {
	return NewObserver(funcr.NewJSON(func(obj string) {
		_, _ = fmt.Fprintln(w, obj)
	}, funcr.Options{
		LogTimestamp: true,
		Verbosity:    verbosity,
	}))
}

// Logger returns the underlying logr.Logger.
func (o *LogObserver) Logger() logr.Logger {
	return o.log
}

// Printf implements Observer.
func (o *LogObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []interface{}{"event", string(event.Type)}
	if event.Step != "" {
		kv = append(kv, "step", event.Step)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, fieldValues(event.Fields)...)

	log := o.log
	if debugEvents[event.Type] {
		log = log.V(1)
	}
	if event.Type == EventStepFailed || event.Type == EventTaskFailed || event.Type == EventValidationError {
		log.Error(nil, event.Message, kv...)
		return
	}
	log.Info(event.Message, kv...)
}

// Progress implements Observer.
func (o *LogObserver) Progress(step string, current, total int) {
	percentage := 0
	if total > 0 {
		percentage = (current * 100) / total
	}
	o.Event(Event{
		Type:    EventProgress,
		Step:    step,
		Message: fmt.Sprintf("%d/%d (%d%%)", current, total, percentage),
	})
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{log: o.log.WithValues(fieldValues(fields)...)}
}

// fieldValues flattens fields into sorted key/value pairs.
func fieldValues(fields map[string]string) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceChanged logs that a resource on the host was created or updated.
func LogResourceChanged(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceChanged,
		Step:     step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s updated", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceUnchanged logs that a resource was already in the desired state.
func LogResourceUnchanged(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceUnchanged,
		Step:     step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s unchanged", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}
