package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports required keys absent from the options.
type ConfigurationError struct {
	Task    string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	if e.Task != "" {
		fmt.Fprintf(&b, "%s: ", e.Task)
	}
	b.WriteString("missing keys in options:")
	for _, k := range e.Missing {
		b.WriteString("\n - ")
		b.WriteString(k)
	}
	return b.String()
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Option key that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}
