package handlers

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/platform/hcloud"
	"github.com/imamik/hostkit/internal/platform/ssh"
	"github.com/imamik/hostkit/internal/provisioning"
	hktesting "github.com/imamik/hostkit/internal/testing"
	"github.com/imamik/hostkit/internal/util/netutil"
)

// fakeConn is a Connection backed by a FakeExecutor.
type fakeConn struct {
	*hktesting.FakeExecutor
	closed bool
}

func (c *fakeConn) Dial(context.Context, string, string) (net.Conn, error) {
	return nil, errors.New("dial not supported")
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// fakeHosts hands out one fakeConn per host and records the SSH configs.
type fakeHosts struct {
	mu      sync.Mutex
	conns   map[string]*fakeConn
	configs []ssh.Config
}

func newFakeHosts(hosts map[string]*hktesting.FakeExecutor) *fakeHosts {
	f := &fakeHosts{conns: make(map[string]*fakeConn)}
	for h, exec := range hosts {
		f.conns[h] = &fakeConn{FakeExecutor: exec}
	}
	return f
}

func (f *fakeHosts) connect(cfg *ssh.Config) (Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, *cfg)
	conn, ok := f.conns[cfg.Host]
	if !ok {
		return nil, errors.New("unknown host " + cfg.Host)
	}
	return conn, nil
}

// fakeResolver answers cloud lookups from fixed data.
type fakeResolver struct {
	byName     map[string]hcloud.Target
	bySelector map[string][]hcloud.Target
}

func (r *fakeResolver) ByName(_ context.Context, name string) (hcloud.Target, error) {
	t, ok := r.byName[name]
	if !ok {
		return hcloud.Target{}, errors.New("server not found: " + name)
	}
	return t, nil
}

func (r *fakeResolver) BySelector(_ context.Context, selector string) ([]hcloud.Target, error) {
	return r.bySelector[selector], nil
}

// saveAndRestoreFactories saves all factory functions and restores them after the test.
func saveAndRestoreFactories(t *testing.T) (logs, out *bytes.Buffer) {
	origLoadOptions := loadOptions
	origLoadTimeouts := loadTimeouts
	origNewResolver := newResolver
	origNewConnection := newConnection
	origWaitForPort := waitForPort
	origReadFile := readFile
	origIsTerminal := isTerminal
	origRunTUI := runTUI
	origLogOutput := logOutput
	origOutput := output
	origFileExists := fileExists
	origConfirmOverwrite := confirmOverwrite
	origRunWizard := runWizard
	origWriteOptions := writeOptions

	t.Cleanup(func() {
		loadOptions = origLoadOptions
		loadTimeouts = origLoadTimeouts
		newResolver = origNewResolver
		newConnection = origNewConnection
		waitForPort = origWaitForPort
		readFile = origReadFile
		isTerminal = origIsTerminal
		runTUI = origRunTUI
		logOutput = origLogOutput
		output = origOutput
		fileExists = origFileExists
		confirmOverwrite = origConfirmOverwrite
		runWizard = origRunWizard
		writeOptions = origWriteOptions
	})

	logs, out = &bytes.Buffer{}, &bytes.Buffer{}
	logOutput = logs
	output = out
	isTerminal = func() bool { return false }
	newResolver = func() (targetResolver, error) {
		return nil, errors.New("HCLOUD_TOKEN is not set")
	}
	waitForPort = func(context.Context, string, int, time.Duration, netutil.DialFunc) error {
		t.Fatal("waitForPort called without --wait-ssh")
		return nil
	}
	loadTimeouts = func() *config.Timeouts {
		return &config.Timeouts{
			Connect:           time.Second,
			Task:              10 * time.Second,
			AptLock:           time.Second,
			RetryMaxAttempts:  1,
			RetryInitialDelay: time.Millisecond,
		}
	}
	return logs, out
}

// withOptions makes loadOptions return opts.
func withOptions(opts config.Options) {
	loadOptions = func(config.LoadParams) (config.Options, error) {
		return opts, nil
	}
}

func globals(hosts ...string) *GlobalOptions {
	g := DefaultGlobalOptions()
	g.Hosts = hosts
	return g
}

var _ provisioning.Dialer = (*fakeConn)(nil)
