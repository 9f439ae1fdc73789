package ensure

import (
	"testing"
	"time"

	"github.com/imamik/hostkit/internal/remote"
	hktesting "github.com/imamik/hostkit/internal/testing"
)

// newTestHost returns a Host over fake logged in as user.
func newTestHost(t *testing.T, fake *hktesting.FakeExecutor, user string) *Host {
	t.Helper()
	h := New(remote.NewSession(fake, "web-1", user), WithAptLockTimeout(time.Second))
	h.aptRetryDelay = 10 * time.Millisecond
	return h
}
