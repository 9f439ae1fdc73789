package ensure

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/imamik/hostkit/internal/remote"
)

const (
	supervisorConfDir         = "/etc/supervisor/conf.d"
	supervisorProgramTemplate = "supervisor-program.conf.tmpl"
)

// EnvVar is one entry of a program environment.
type EnvVar struct {
	Key   string
	Value string
}

// SupervisorProgram describes a process managed by supervisord.
type SupervisorProgram struct {
	Name        string
	Command     string
	Directory   string
	User        string
	Autostart   bool
	Autorestart bool
	StdoutLog   string
	StderrLog   string
	Environment map[string]string
}

// Env returns the environment sorted by key.
func (p SupervisorProgram) Env() []EnvVar {
	keys := make([]string, 0, len(p.Environment))
	for k := range p.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]EnvVar, 0, len(keys))
	for _, k := range keys {
		env = append(env, EnvVar{Key: k, Value: p.Environment[k]})
	}
	return env
}

// RenderSupervisorProgram renders the program section.
func RenderSupervisorProgram(p SupervisorProgram) ([]byte, error) {
	if p.StdoutLog == "" {
		p.StdoutLog = fmt.Sprintf("/var/log/supervisor/%s.out.log", p.Name)
	}
	if p.StderrLog == "" {
		p.StderrLog = fmt.Sprintf("/var/log/supervisor/%s.err.log", p.Name)
	}
	content, err := loadTemplate(supervisorProgramTemplate, BuiltinTemplate)
	if err != nil {
		return nil, err
	}
	return renderTemplate(supervisorProgramTemplate, content, p)
}

// SupervisorProgramConfig installs the program definition and has
// supervisord pick it up.
func (h *Host) SupervisorProgramConfig(ctx context.Context, p SupervisorProgram) error {
	if err := h.Packages(ctx, "supervisor"); err != nil {
		return err
	}

	rendered, err := RenderSupervisorProgram(p)
	if err != nil {
		return err
	}

	dst := path.Join(supervisorConfDir, p.Name+".conf")
	changed, err := h.File(ctx, dst, rendered, "root", 0o644)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	update := remote.Cmd("supervisorctl", "reread").And(remote.Cmd("supervisorctl", "update"))
	if _, err := h.sess.Run(ctx, update, remote.Sudo()); err != nil {
		return fmt.Errorf("failed to load supervisor program %s: %w", p.Name, err)
	}
	return nil
}

// RestartProcess restarts a supervisor program, starting it if stopped.
func (h *Host) RestartProcess(ctx context.Context, name string) error {
	if _, err := h.sess.Run(ctx, remote.Cmd("supervisorctl", "restart", name), remote.Sudo()); err != nil {
		return fmt.Errorf("failed to restart %s: %w", name, err)
	}
	return nil
}
