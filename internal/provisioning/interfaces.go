package provisioning

import (
	"context"
	"net"
)

// Step is one unit of a provisioning task.
type Step interface {
	// Name returns the step name used in logs, metrics and errors.
	Name() string
	// Provision applies the step to the host bound to ctx.
	Provision(ctx *Context) error
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	name string
	fn   func(*Context) error
}

// NewStep creates a Step from a name and a function.
func NewStep(name string, fn func(*Context) error) StepFunc {
	return StepFunc{name: name, fn: fn}
}

// Name implements Step.
func (s StepFunc) Name() string { return s.name }

// Provision implements Step.
func (s StepFunc) Provision(ctx *Context) error { return s.fn(ctx) }

// Dialer opens connections from the target host, used to reach services that
// only listen on its loopback interface.
type Dialer interface {
	Dial(ctx context.Context, network, addr string) (net.Conn, error)
}
