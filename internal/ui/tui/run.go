package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/hostkit/internal/provisioning"
)

// RunTaskTUI runs a task behind the dashboard. run receives the observer
// to report through and executes the task; the dashboard closes when run
// returns.
func RunTaskTUI(
	ctx context.Context,
	host, task string,
	steps []string,
	run func(ctx context.Context, observer provisioning.Observer) error,
) error {
	m := NewModel(host, task, steps)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	runErr := make(chan error, 1)
	go func() {
		err := run(ctx, NewObserver(p.Send))
		runErr <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		cancel()
		<-runErr
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if !fm.Done && fm.Err == nil {
		// Quit by the user: stop the task and wait for it to unwind.
		cancel()
	}
	return <-runErr
}
