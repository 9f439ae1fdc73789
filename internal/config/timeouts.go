package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Connect           time.Duration // SSH dial timeout per attempt
	Task              time.Duration // Deadline for a whole task on one host
	AptLock           time.Duration // How long to wait for another dpkg run to finish
	RetryMaxAttempts  int           // Maximum number of SSH connection attempts
	RetryInitialDelay time.Duration // Initial delay between connection attempts
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HOSTKIT_TIMEOUT_CONNECT (default: 10s)
//   - HOSTKIT_TIMEOUT_TASK (default: 30m)
//   - HOSTKIT_TIMEOUT_APT_LOCK (default: 5m)
//   - HOSTKIT_RETRY_MAX_ATTEMPTS (default: 5)
//   - HOSTKIT_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Connect:           parseDuration("HOSTKIT_TIMEOUT_CONNECT", 10*time.Second),
		Task:              parseDuration("HOSTKIT_TIMEOUT_TASK", 30*time.Minute),
		AptLock:           parseDuration("HOSTKIT_TIMEOUT_APT_LOCK", 5*time.Minute),
		RetryMaxAttempts:  parseInt("HOSTKIT_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("HOSTKIT_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}

	return i
}
