package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/remote"
	hktesting "github.com/imamik/hostkit/internal/testing"
)

func recordingStep(name string, executed *[]string, err error) Step {
	return NewStep(name, func(_ *Context) error {
		*executed = append(*executed, name)
		return err
	})
}

func newTestContext(t *testing.T, opts config.Options) (*Context, *hktesting.FakeExecutor, *MockObserver) {
	t.Helper()
	fake := hktesting.NewFakeExecutor()
	observer := NewMockObserver()
	sess := remote.NewSession(fake, "web-1", "root")
	ctx := NewContext(hktesting.TestContext(t), opts, sess, observer)
	return ctx, fake, observer
}

func TestTask_Run_Success(t *testing.T) {
	t.Parallel()
	var executed []string

	task := Task{
		Name: "deploy",
		Steps: []Step{
			recordingStep("packages", &executed, nil),
			recordingStep("checkout", &executed, nil),
			recordingStep("restart", &executed, nil),
		},
	}

	ctx, _, _ := newTestContext(t, nil)
	report, err := task.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"packages", "checkout", "restart"}, executed)
	assert.Equal(t, StateComplete, report.State)
	assert.Equal(t, executed, report.Completed)
	assert.Empty(t, report.Failed)
	assert.Equal(t, "web-1", report.Host)
}

func TestTask_Run_StopsOnError(t *testing.T) {
	t.Parallel()
	var executed []string
	boom := errors.New("apt-get exploded")

	task := Task{
		Name: "deploy",
		Steps: []Step{
			recordingStep("S1", &executed, nil),
			recordingStep("S2", &executed, boom),
			recordingStep("S3", &executed, nil),
		},
	}

	ctx, _, _ := newTestContext(t, nil)
	report, err := task.Run(ctx)

	require.Error(t, err)
	assert.Equal(t, []string{"S1", "S2"}, executed, "S3 must never run")
	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, "S2", report.Failed)
	assert.Equal(t, []string{"S1"}, report.Completed)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "S2", se.Step)
	assert.Equal(t, 2, se.Index)
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsStepError(err))
	assert.Contains(t, err.Error(), "S2 step failed")
}

func TestTask_Run_ValidationIssuesNoCommands(t *testing.T) {
	t.Parallel()
	ran := false
	task := Task{
		Name:   "deploy",
		Schema: config.Schema{Required: []string{"project_name", "pg_user", "pg_db_name"}},
		Steps: []Step{
			NewStep("packages", func(ctx *Context) error {
				ran = true
				_, err := ctx.Session.Run(ctx, remote.Cmd("apt-get", "update"))
				return err
			}),
		},
	}

	ctx, fake, observer := newTestContext(t, config.Options{"project_name": "shop"})
	report, err := task.Run(ctx)

	require.Error(t, err)
	assert.False(t, ran)
	assert.Empty(t, fake.Commands())
	assert.Equal(t, StateFailed, report.State)
	assert.Empty(t, report.Failed)
	assert.False(t, IsStepError(err))

	var ce *config.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"pg_user", "pg_db_name"}, ce.Missing)
	assert.Equal(t, "deploy", ce.Task)
	assert.Contains(t, err.Error(), "pg_db_name")
	assert.Len(t, observer.EventsOf(EventValidationError), 2)
}

func TestTask_Run_UnknownKeysWarn(t *testing.T) {
	t.Parallel()
	task := Task{
		Name:   "update",
		Schema: config.Schema{Required: []string{"project_root"}, Optional: []string{"app_user"}},
	}

	ctx, _, observer := newTestContext(t, config.Options{"project_root": "/srv/app", "colour": "blue"})
	report, err := task.Run(ctx)

	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "colour", report.Warnings[0].Field)
	assert.Len(t, observer.EventsOf(EventValidationWarning), 1)
	assert.Equal(t, StateComplete, report.State)
}

func TestTask_Run_CancelledContext(t *testing.T) {
	t.Parallel()
	var executed []string
	task := Task{Name: "update", Steps: []Step{recordingStep("checkout", &executed, nil)}}

	parent, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := NewContext(parent, nil, remote.NewSession(hktesting.NewFakeExecutor(), "web-1", "root"), nil)

	report, err := task.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, executed)
	assert.Equal(t, "checkout", report.Failed)
}

func TestTask_With_AppendsWithoutReordering(t *testing.T) {
	t.Parallel()
	var executed []string
	base := Task{
		Name: "deploy",
		Steps: []Step{
			recordingStep("packages", &executed, nil),
			recordingStep("restart", &executed, nil),
		},
	}

	extended := base.With(recordingStep("collectstatic", &executed, nil))

	assert.Equal(t, []string{"packages", "restart"}, base.StepNames(), "base task must not change")
	assert.Equal(t, []string{"packages", "restart", "collectstatic"}, extended.StepNames())

	ctx, _, _ := newTestContext(t, nil)
	_, err := extended.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"packages", "restart", "collectstatic"}, executed)
}

func TestTask_With_DoesNotShareBacking(t *testing.T) {
	t.Parallel()
	var executed []string
	steps := make([]Step, 1, 4)
	steps[0] = recordingStep("a", &executed, nil)
	base := Task{Name: "t", Steps: steps}

	one := base.With(recordingStep("b", &executed, nil))
	two := base.With(recordingStep("c", &executed, nil))

	assert.Equal(t, []string{"a", "b"}, one.StepNames())
	assert.Equal(t, []string{"a", "c"}, two.StepNames())
}

func TestTask_Run_LogsStepProgress(t *testing.T) {
	t.Parallel()
	var executed []string
	task := Task{Name: "update", Steps: []Step{recordingStep("checkout", &executed, nil)}}

	ctx, _, observer := newTestContext(t, nil)
	_, err := task.Run(ctx)
	require.NoError(t, err)

	assert.True(t, observer.Logged("[checkout (1/1)] starting"))
	assert.True(t, observer.LoggedPrefix("[checkout (1/1)] completed in"))
}

func TestTask_Run_CommandsAreObserved(t *testing.T) {
	t.Parallel()
	task := Task{Name: "prep", Steps: []Step{NewStep("uptime", func(ctx *Context) error {
		_, err := ctx.Session.Run(ctx, remote.Cmd("uptime"))
		return err
	})}}

	ctx, fake, observer := newTestContext(t, nil)
	_, err := task.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"uptime"}, fake.Commands())
	events := observer.EventsOf(EventCommand)
	require.Len(t, events, 1)
	assert.Equal(t, "uptime", events[0].Message)
	assert.Equal(t, "web-1", events[0].Resource)
}

func TestRunState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "unvalidated", StateUnvalidated.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(42)", RunState(42).String())
}
