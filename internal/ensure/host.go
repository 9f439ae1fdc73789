package ensure

import (
	"time"

	"github.com/imamik/hostkit/internal/remote"
)

const (
	defaultAptLockTimeout = 5 * time.Minute
	defaultAptRetryDelay  = 2 * time.Second
)

// Host runs installer routines against one remote host.
type Host struct {
	sess           *remote.Session
	aptLockTimeout time.Duration
	aptRetryDelay  time.Duration
}

// Option configures a Host.
type Option func(*Host)

// WithAptLockTimeout sets how long package operations wait for a dpkg lock
// held by another process, such as unattended-upgrades.
func WithAptLockTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.aptLockTimeout = d
		}
	}
}

// New creates a Host for sess.
func New(sess *remote.Session, opts ...Option) *Host {
	h := &Host{sess: sess, aptLockTimeout: defaultAptLockTimeout, aptRetryDelay: defaultAptRetryDelay}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Session returns the underlying session.
func (h *Host) Session() *remote.Session {
	return h.sess
}
