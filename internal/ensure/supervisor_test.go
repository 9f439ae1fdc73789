package ensure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hktesting "github.com/imamik/hostkit/internal/testing"
)

func sampleProgram() SupervisorProgram {
	return SupervisorProgram{
		Name:        "shop",
		Command:     "/venv/bin/gunicorn shop.wsgi:application --bind 127.0.0.1:8000 --workers 3",
		Directory:   "/srv/shop",
		User:        "www-data",
		Autostart:   true,
		Autorestart: true,
		Environment: map[string]string{
			"DJANGO_SETTINGS_MODULE": "shop.settings",
			"SECRET_KEY":             `a"b%c`,
		},
	}
}

func TestRenderSupervisorProgram(t *testing.T) {
	t.Parallel()
	out, err := RenderSupervisorProgram(sampleProgram())
	require.NoError(t, err)
	conf := string(out)

	assert.Contains(t, conf, "[program:shop]\n")
	assert.Contains(t, conf, "command=/venv/bin/gunicorn shop.wsgi:application --bind 127.0.0.1:8000 --workers 3\n")
	assert.Contains(t, conf, "user=www-data\n")
	assert.Contains(t, conf, "autostart=true\n")
	assert.Contains(t, conf, "stdout_logfile=/var/log/supervisor/shop.out.log\n")
	assert.Contains(t, conf, "stderr_logfile=/var/log/supervisor/shop.err.log")
	assert.Contains(t, conf, `environment=DJANGO_SETTINGS_MODULE="shop.settings",SECRET_KEY="a\"b%%c"`)
}

func TestRenderSupervisorProgram_NoEnvironment(t *testing.T) {
	t.Parallel()
	p := sampleProgram()
	p.Environment = nil
	out, err := RenderSupervisorProgram(p)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "environment=")
}

func TestSupervisorProgramConfig(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().
		On("dpkg-query", hktesting.OK("install ok installed")).
		On("cat /etc/supervisor", hktesting.Fail(1, ""))
	h := newTestHost(t, fake, "root")

	require.NoError(t, h.SupervisorProgramConfig(hktesting.TestContext(t), sampleProgram()))

	_, ok := fake.UploadTo("/etc/supervisor/conf.d/shop.conf")
	assert.True(t, ok)
	hktesting.AssertCommandOrder(t, fake.Commands(), "supervisorctl reread && supervisorctl update")
}

func TestSupervisorProgramConfig_UnchangedSkipsUpdate(t *testing.T) {
	t.Parallel()
	rendered, err := RenderSupervisorProgram(sampleProgram())
	require.NoError(t, err)

	fake := hktesting.NewFakeExecutor().
		On("dpkg-query", hktesting.OK("install ok installed")).
		On("cat /etc/supervisor", hktesting.OK(string(rendered)))
	h := newTestHost(t, fake, "root")

	require.NoError(t, h.SupervisorProgramConfig(hktesting.TestContext(t), sampleProgram()))
	hktesting.AssertNoCommand(t, fake.Commands(), "supervisorctl")
}

func TestRestartProcess(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor()
	h := newTestHost(t, fake, "root")

	require.NoError(t, h.RestartProcess(hktesting.TestContext(t), "shop"))
	assert.Equal(t, []string{"supervisorctl restart shop"}, fake.Commands())
}
