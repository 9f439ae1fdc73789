package remote_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostkit/internal/remote"
	hktesting "github.com/imamik/hostkit/internal/testing"
)

func TestSession_Line(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		user string
		opts []remote.RunOption
		want string
	}{
		{
			name: "plain",
			user: "deploy",
			want: "poetry install",
		},
		{
			name: "in directory",
			user: "deploy",
			opts: []remote.RunOption{remote.InDir("/srv/my app")},
			want: "cd '/srv/my app' && poetry install",
		},
		{
			name: "sudo as non-root",
			user: "deploy",
			opts: []remote.RunOption{remote.Sudo()},
			want: "sudo -H sh -c 'poetry install'",
		},
		{
			name: "sudo as root is a no-op",
			user: "root",
			opts: []remote.RunOption{remote.Sudo()},
			want: "poetry install",
		},
		{
			name: "as user with env",
			user: "root",
			opts: []remote.RunOption{remote.AsUser("www"), remote.WithEnv("DJANGO_SETTINGS_MODULE", "app.settings")},
			want: `sudo -H -u www sh -c 'export DJANGO_SETTINGS_MODULE=app.settings && poetry install'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := remote.NewSession(hktesting.NewFakeExecutor(), "web-1", tt.user)
			assert.Equal(t, tt.want, sess.Line(remote.Cmd("poetry", "install"), tt.opts...))
		})
	}
}

func TestSession_Run_FailureBecomesCommandError(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().On("nginx -t", hktesting.Fail(1, "syntax error near line 3"))
	sess := remote.NewSession(fake, "web-1", "root")

	_, err := sess.Run(context.Background(), remote.Cmd("nginx", "-t"))
	require.Error(t, err)

	var ce *remote.RemoteCommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.ExitStatus)
	assert.Equal(t, "web-1", ce.Host)
	assert.Contains(t, err.Error(), "syntax error near line 3")
	assert.True(t, remote.IsCommandError(err))
}

func TestSession_Run_AllowFailure(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().On("go version", hktesting.Fail(127, "not found"))
	sess := remote.NewSession(fake, "web-1", "root")

	res, err := sess.Run(context.Background(), remote.Cmd("go", "version"), remote.AllowFailure())
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, 127, res.ExitStatus)
}

func TestSession_Run_TransportError(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().On("uptime", hktesting.Broken(errors.New("connection reset")))
	sess := remote.NewSession(fake, "web-1", "root")

	_, err := sess.Run(context.Background(), remote.Cmd("uptime"), remote.AllowFailure())
	require.Error(t, err)
	assert.False(t, remote.IsCommandError(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSession_OutputAndSucceeds(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().
		On("hostname", hktesting.OK("web-1\n")).
		On("test -d", hktesting.Fail(1, ""))
	sess := remote.NewSession(fake, "web-1", "root")

	out, err := sess.Output(context.Background(), remote.Cmd("hostname"))
	require.NoError(t, err)
	assert.Equal(t, "web-1", out)

	ok, err := sess.Succeeds(context.Background(), remote.Cmd("test", "-d", "/srv"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_OnCommand(t *testing.T) {
	t.Parallel()
	sess := remote.NewSession(hktesting.NewFakeExecutor(), "web-1", "root")
	var seen []string
	sess.OnCommand = func(r remote.Result) { seen = append(seen, r.Command) }

	_, err := sess.Run(context.Background(), remote.Cmd("true"))
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, seen)
}

func TestSession_Upload_SudoStagesFile(t *testing.T) {
	t.Parallel()
	m := &hktesting.MockExecutor{}
	m.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "/tmp/hostkit-upload-")
	}), mock.Anything).Return(nil)
	m.On("Execute", mock.Anything, mock.MatchedBy(func(line string) bool {
		return strings.HasPrefix(line, "sudo -H sh -c") && strings.Contains(line, "/etc/nginx/sites-available/app.conf")
	})).Return(remote.Result{}, nil)

	sess := remote.NewSession(m, "web-1", "deploy")
	err := sess.Upload(context.Background(), strings.NewReader("server {}"), "/etc/nginx/sites-available/app.conf", 0o644, remote.Sudo())
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestSession_Upload_DirectAsRoot(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor()
	sess := remote.NewSession(fake, "web-1", "root")

	err := sess.Upload(context.Background(), strings.NewReader("data"), "/etc/app.conf", 0o600, remote.Sudo())
	require.NoError(t, err)

	up, ok := fake.UploadTo("/etc/app.conf")
	require.True(t, ok)
	assert.Equal(t, "data", up.Content)
	assert.Empty(t, fake.Commands())
}
