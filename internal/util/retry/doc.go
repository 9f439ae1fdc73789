// Package retry retries transient failures with exponential backoff.
//
// It covers the two places where hostkit waits on the remote side instead of
// failing a step: dialing SSH while a host is still booting, and apt/dpkg
// operations that race an unattended-upgrades run for the package lock.
// Provisioning steps themselves are never retried.
package retry
