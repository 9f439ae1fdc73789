// Package benchmarks provides timing estimates for provisioning steps.
package benchmarks

import (
	"time"
)

// DefaultTimings are median step durations against a fresh Ubuntu host
// (seconds).
var DefaultTimings = map[string]int{
	"prepare-host": 1,
	"packages":     90,
	"toolchains":   60,
	"environment":  1,
	"database":     3,
	"checkout":     10,
	"dependencies": 120,
	"virtualenv":   2,
	"certificates": 3,
	"nginx":        3,
	"supervisor":   5,
	"restart":      5,
	"golang":       45,
	"python-tools": 30,
	"flush":        2,
	"manage":       20,
}

// StepRecord is the timing of a finished step.
type StepRecord struct {
	Step    string
	Started time.Time
	Ended   time.Time
}

// Duration returns how long the step took.
func (r StepRecord) Duration() time.Duration {
	return r.Ended.Sub(r.Started)
}

// ExpectedDuration returns the benchmark duration for a step.
func ExpectedDuration(step string) (time.Duration, bool) {
	secs, ok := DefaultTimings[step]
	if !ok {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// EstimateRemaining calculates the estimated time remaining based on the
// current step, its elapsed time, and the steps already finished.
func EstimateRemaining(steps []string, current string, stepElapsed time.Duration, history []StepRecord) time.Duration {
	return EstimateRemainingWithScale(steps, current, stepElapsed, history, PerformanceScale(current, stepElapsed, history))
}

// EstimateRemainingWithScale calculates ETA while applying a performance scale factor.
func EstimateRemainingWithScale(
	steps []string,
	current string,
	stepElapsed time.Duration,
	history []StepRecord,
	scale float64,
) time.Duration {
	currentIdx := -1
	for i, s := range steps {
		if s == current {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	var remaining time.Duration
	if expected, ok := ExpectedDuration(current); ok {
		expected = time.Duration(float64(expected) * scale)
		if expected > stepElapsed {
			remaining += expected - stepElapsed
		}
	}

	finished := make(map[string]bool, len(history))
	for _, rec := range history {
		finished[rec.Step] = true
	}
	for _, step := range steps[currentIdx+1:] {
		if finished[step] {
			continue
		}
		if expected, ok := ExpectedDuration(step); ok {
			remaining += time.Duration(float64(expected) * scale)
		}
	}
	return remaining
}

// PerformanceScale derives a speed multiplier from observed-vs-expected durations.
// Example: expected 3m, observed 4m30s => scale=1.5 (future ETAs are stretched by 50%).
func PerformanceScale(current string, stepElapsed time.Duration, history []StepRecord) float64 {
	var expectedTotal, actualTotal time.Duration

	for _, rec := range history {
		expected, ok := ExpectedDuration(rec.Step)
		if !ok {
			continue
		}
		expectedTotal += expected
		actualTotal += rec.Duration()
	}

	// An overrunning step is folded in right away so the ETA adapts quickly.
	if expected, ok := ExpectedDuration(current); ok && stepElapsed > expected {
		expectedTotal += expected
		actualTotal += stepElapsed
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.2 {
		return 0.2
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// TotalEstimate returns the total estimated duration of steps.
func TotalEstimate(steps []string) time.Duration {
	var total time.Duration
	for _, step := range steps {
		if d, ok := ExpectedDuration(step); ok {
			total += d
		}
	}
	return total
}
