package provisioning

import (
	"context"
	"strconv"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/remote"
)

// State holds values derived by earlier steps of a run.
// It is progressively populated and read by the steps that need earlier results.
type State struct {
	// Application results (populated by the dependency install step)
	VirtualenvDir string
	GunicornBin   string

	// TLS material uploaded to the host
	Certificates ensure.CertPaths

	// Cache flush results
	KeysDeleted int

	// GoVersion is the toolchain version found or installed.
	GoVersion string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning step.
type Context struct {
	context.Context
	Options  config.Options
	Session  *remote.Session
	Host     *ensure.Host
	State    *State
	Observer Observer
	Metrics  *Metrics
	Timeouts *config.Timeouts

	// Dialer is set when the transport supports port forwarding.
	Dialer Dialer
}

// NewContext creates a new provisioning context for one host.
// A nil observer logs nothing. Commands executed on sess are reported to the
// observer and counted in metrics.
func NewContext(
	ctx context.Context,
	opts config.Options,
	sess *remote.Session,
	observer Observer,
	hostOpts ...ensure.Option,
) *Context {
	if observer == nil {
		observer = NopObserver()
	}
	if opts == nil {
		opts = config.Options{}
	}
	pctx := &Context{
		Context:  ctx,
		Options:  opts,
		Session:  sess,
		State:    NewState(),
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
	}
	if sess != nil {
		pctx.Host = ensure.New(sess, hostOpts...)
		if sess.OnCommand == nil {
			sess.OnCommand = pctx.observeCommand
		}
	}
	return pctx
}

func (c *Context) observeCommand(res remote.Result) {
	c.Observer.Event(Event{
		Type:     EventCommand,
		Resource: c.Session.Host(),
		Message:  res.Command,
		Fields:   map[string]string{"exit": strconv.Itoa(res.ExitStatus)},
	})
	c.Metrics.ObserveCommand(c.Session.Host(), res.Succeeded())
}
