package provisioning

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects task, step and command counters for one hostkit invocation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	taskRuns      *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	stepFailures  *prometheus.CounterVec
	commandsTotal *prometheus.CounterVec
}

// NewMetrics creates a metrics set on its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		taskRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostkit",
				Subsystem: "task",
				Name:      "runs_total",
				Help:      "Total number of task runs by final state",
			},
			[]string{"task", "host", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hostkit",
				Subsystem: "step",
				Name:      "duration_seconds",
				Help:      "Duration of provisioning steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4min
			},
			[]string{"task", "step"},
		),
		stepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostkit",
				Subsystem: "step",
				Name:      "failures_total",
				Help:      "Total number of failed provisioning steps",
			},
			[]string{"task", "step"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostkit",
				Subsystem: "remote",
				Name:      "commands_total",
				Help:      "Total number of remote commands by result",
			},
			[]string{"host", "result"},
		),
	}
	m.registry.MustRegister(m.taskRuns, m.stepDuration, m.stepFailures, m.commandsTotal)
	return m
}

// Registry returns the registry holding all hostkit collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format to path,
// for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// ObserveTask records the final state of a task run.
func (m *Metrics) ObserveTask(task, host string, state RunState) {
	if m == nil {
		return
	}
	m.taskRuns.WithLabelValues(task, host, state.String()).Inc()
}

// ObserveStep records a step duration and, if it failed, a failure.
func (m *Metrics) ObserveStep(task, step string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(task, step).Observe(seconds)
	if failed {
		m.stepFailures.WithLabelValues(task, step).Inc()
	}
}

// ObserveCommand counts one remote command.
func (m *Metrics) ObserveCommand(host string, succeeded bool) {
	if m == nil {
		return
	}
	result := "success"
	if !succeeded {
		result = "failure"
	}
	m.commandsTotal.WithLabelValues(host, result).Inc()
}
