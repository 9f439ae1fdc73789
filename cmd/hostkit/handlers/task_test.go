package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/platform/hcloud"
	"github.com/imamik/hostkit/internal/platform/ssh"
	"github.com/imamik/hostkit/internal/provisioning"
	"github.com/imamik/hostkit/internal/provisioning/django"
	"github.com/imamik/hostkit/internal/provisioning/server"
	hktesting "github.com/imamik/hostkit/internal/testing"
	"github.com/imamik/hostkit/internal/util/netutil"
)

func TestRunTask_RunsHostsSerially(t *testing.T) {
	logs, _ := saveAndRestoreFactories(t)
	withOptions(config.Options{})
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")

	web1, web2 := hktesting.NewFakeExecutor(), hktesting.NewFakeExecutor()
	hosts := newFakeHosts(map[string]*hktesting.FakeExecutor{"web-1": web1, "web-2": web2})
	newConnection = hosts.connect

	err := RunTask(context.Background(), globals("web-1", "web-2"), server.PrepTask())
	require.NoError(t, err)

	for _, fake := range []*hktesting.FakeExecutor{web1, web2} {
		hktesting.AssertCommandOrder(t, fake.Commands(), "SYSTEMD_PAGER=")
	}
	require.Len(t, hosts.configs, 2)
	assert.Equal(t, "web-1", hosts.configs[0].Host)
	assert.Equal(t, "root", hosts.configs[0].User)
	assert.Equal(t, 22, hosts.configs[0].Port)
	assert.True(t, hosts.configs[0].UseAgent)
	assert.Equal(t, time.Second, hosts.configs[0].DialTimeout)
	assert.True(t, hosts.conns["web-1"].closed)
	assert.Contains(t, logs.String(), "Host 2/2: web-2")
}

func TestRunTask_ValidationBeforeConnect(t *testing.T) {
	saveAndRestoreFactories(t)
	withOptions(config.Options{"redis_db": 0})
	newConnection = func(*ssh.Config) (Connection, error) {
		t.Fatal("connection opened despite invalid options")
		return nil, nil
	}

	err := RunTask(context.Background(), globals("web-1"), django.FlushCache())
	require.Error(t, err)

	var cerr *config.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"redis_namespace"}, cerr.Missing)
	assert.Equal(t, "flush-cache", cerr.Task)
}

func TestRunTask_StopsAtFirstFailingHost(t *testing.T) {
	saveAndRestoreFactories(t)
	withOptions(config.Options{})
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")

	web1 := hktesting.NewFakeExecutor().On("SYSTEMD_PAGER", hktesting.Fail(1, "read-only file system"))
	web2 := hktesting.NewFakeExecutor()
	newConnection = newFakeHosts(map[string]*hktesting.FakeExecutor{"web-1": web1, "web-2": web2}).connect

	err := RunTask(context.Background(), globals("web-1", "web-2"), server.PrepTask())
	require.Error(t, err)
	assert.True(t, provisioning.IsStepError(err))
	assert.Contains(t, err.Error(), "web-1: ")
	assert.Empty(t, web2.Commands())
}

func TestRunTask_WritesMetricsFile(t *testing.T) {
	saveAndRestoreFactories(t)
	withOptions(config.Options{})
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")
	newConnection = newFakeHosts(map[string]*hktesting.FakeExecutor{"web-1": hktesting.NewFakeExecutor()}).connect

	g := globals("web-1")
	g.MetricsFile = filepath.Join(t.TempDir(), "hostkit.prom")

	require.NoError(t, RunTask(context.Background(), g, server.PrepTask()))

	data, err := os.ReadFile(g.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hostkit_task_runs_total{host="web-1",result="complete",task="prep"} 1`)
	assert.Contains(t, string(data), `hostkit_remote_commands_total{host="web-1",result="success"} 1`)
}

func TestRunTask_JSONLogs(t *testing.T) {
	logs, _ := saveAndRestoreFactories(t)
	withOptions(config.Options{})
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")
	newConnection = newFakeHosts(map[string]*hktesting.FakeExecutor{"web-1": hktesting.NewFakeExecutor()}).connect

	g := globals("web-1")
	g.JSONLogs = true
	require.NoError(t, RunTask(context.Background(), g, server.PrepTask()))
	assert.Contains(t, logs.String(), `"host":"web-1"`)
}

func TestRunTask_TUIOnlyOnTerminal(t *testing.T) {
	saveAndRestoreFactories(t)
	withOptions(config.Options{})
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")
	fake := hktesting.NewFakeExecutor()
	newConnection = newFakeHosts(map[string]*hktesting.FakeExecutor{"web-1": fake}).connect

	var gotHost, gotTask string
	var gotSteps []string
	runTUI = func(ctx context.Context, host, task string, steps []string, run func(context.Context, provisioning.Observer) error) error {
		gotHost, gotTask, gotSteps = host, task, steps
		return run(ctx, provisioning.NopObserver())
	}

	g := globals("web-1")
	g.TUI = true
	require.NoError(t, RunTask(context.Background(), g, server.PrepTask()))
	assert.Empty(t, gotHost, "TUI must not start without a terminal")

	isTerminal = func() bool { return true }
	require.NoError(t, RunTask(context.Background(), g, server.PrepTask()))
	assert.Equal(t, "web-1", gotHost)
	assert.Equal(t, "prep", gotTask)
	assert.Equal(t, server.PrepTask().StepNames(), gotSteps)
	assert.Len(t, fake.Commands(), 2)
}

func TestRunTask_IdentityAndWaitSSH(t *testing.T) {
	saveAndRestoreFactories(t)
	withOptions(config.Options{})
	t.Setenv("SSH_AUTH_SOCK", "")
	t.Setenv(passphraseEnv, "hunter2")
	hosts := newFakeHosts(map[string]*hktesting.FakeExecutor{"203.0.113.7": hktesting.NewFakeExecutor()})
	newConnection = hosts.connect
	readFile = func(path string) ([]byte, error) {
		assert.Equal(t, "/home/me/.ssh/id_ed25519", path)
		return []byte("PEM"), nil
	}
	var waited string
	waitForPort = func(_ context.Context, host string, port int, timeout time.Duration, _ netutil.DialFunc) error {
		waited = host
		assert.Equal(t, 2222, port)
		assert.Equal(t, time.Minute, timeout)
		return nil
	}

	g := globals("203.0.113.7")
	g.Identity = "/home/me/.ssh/id_ed25519"
	g.Port = 2222
	g.WaitSSH = time.Minute
	require.NoError(t, RunTask(context.Background(), g, server.PrepTask()))

	assert.Equal(t, "203.0.113.7", waited)
	require.Len(t, hosts.configs, 1)
	assert.Equal(t, []byte("PEM"), hosts.configs[0].PrivateKey)
	assert.Equal(t, []byte("hunter2"), hosts.configs[0].Passphrase)
	assert.False(t, hosts.configs[0].UseAgent)
}

func TestRunTask_Errors(t *testing.T) {
	saveAndRestoreFactories(t)

	err := RunTask(context.Background(), globals(), server.PrepTask())
	assert.ErrorContains(t, err, "no target host")

	g := globals("web-1")
	g.Port = 0
	assert.ErrorContains(t, RunTask(context.Background(), g, server.PrepTask()), "--port")

	loadOptions = func(config.LoadParams) (config.Options, error) {
		return nil, errors.New("no such file")
	}
	err = RunTask(context.Background(), globals("web-1"), server.PrepTask())
	assert.ErrorContains(t, err, "failed to load options: no such file")
}

func TestResolveTargets(t *testing.T) {
	saveAndRestoreFactories(t)
	newResolver = func() (targetResolver, error) {
		return &fakeResolver{
			byName: map[string]hcloud.Target{"db-1": {Name: "db-1", Addr: "203.0.113.5"}},
			bySelector: map[string][]hcloud.Target{"role=web": {
				{Name: "web-1", Addr: "203.0.113.1"},
				{Name: "web-2", Addr: "203.0.113.2"},
			}},
		}, nil
	}

	g := globals("203.0.113.1", " ")
	g.HCloudServers = []string{"db-1"}
	g.HCloudSelector = "role=web"

	targets, err := resolveTargets(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, []hcloud.Target{
		{Name: "203.0.113.1", Addr: "203.0.113.1"},
		{Name: "db-1", Addr: "203.0.113.5"},
		{Name: "web-2", Addr: "203.0.113.2"},
	}, targets)

	g = globals()
	g.HCloudServers = []string{"missing"}
	_, err = resolveTargets(context.Background(), g)
	assert.ErrorContains(t, err, "server not found: missing")

	_, err = resolveTargets(context.Background(), globals("web-1:2222"))
	assert.ErrorContains(t, err, "use --port")
}

func TestResolveTargets_NoToken(t *testing.T) {
	saveAndRestoreFactories(t)
	g := globals()
	g.HCloudSelector = "role=web"

	_, err := resolveTargets(context.Background(), g)
	assert.ErrorContains(t, err, "HCLOUD_TOKEN is not set")
}

func TestRunTask_OverridesWin(t *testing.T) {
	saveAndRestoreFactories(t)
	withOptions(config.Options{"go_version": "1.21.0"})
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")
	fake := hktesting.NewFakeExecutor().
		Once("go version", hktesting.OK("go version go1.23.1 linux/amd64\n")).
		On("go version", hktesting.OK("go version go1.24.0 linux/amd64\n")).
		On("uname -m", hktesting.OK("x86_64\n"))
	newConnection = newFakeHosts(map[string]*hktesting.FakeExecutor{"web-1": fake}).connect

	g := globals("web-1")
	g.Overrides = config.Options{"go_version": "1.24.0"}
	require.NoError(t, RunTask(context.Background(), g, server.GolangTask()))

	// 1.23.1 is older than the override, so the toolchain is reinstalled.
	hktesting.AssertCommandOrder(t, fake.Commands(), "go version", "go1.24.0.linux-amd64.tar.gz")
}
