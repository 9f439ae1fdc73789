package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Session is the connection to one target host that every installer and task
// step receives explicitly.
type Session struct {
	exec Executor
	host string
	user string

	// OnCommand, if set, is called after every executed command.
	OnCommand func(Result)
}

// NewSession creates a session for host, logged in as user, over exec.
func NewSession(exec Executor, host, user string) *Session {
	return &Session{exec: exec, host: host, user: user}
}

// Host returns the target host name or address.
func (s *Session) Host() string {
	return s.host
}

// User returns the login user.
func (s *Session) User() string {
	return s.user
}

type runConfig struct {
	sudo         bool
	asUser       string
	dir          string
	env          [][2]string
	allowFailure bool
}

// RunOption modifies how a single command is executed.
type RunOption func(*runConfig)

// Sudo runs the command with root privileges. It is a no-op when the session
// already logs in as root.
func Sudo() RunOption {
	return func(c *runConfig) { c.sudo = true }
}

// AsUser runs the command as the given user through sudo.
func AsUser(user string) RunOption {
	return func(c *runConfig) { c.asUser = user }
}

// InDir changes into dir before running the command.
func InDir(dir string) RunOption {
	return func(c *runConfig) { c.dir = dir }
}

// WithEnv exports an environment variable for the command.
func WithEnv(key, value string) RunOption {
	return func(c *runConfig) { c.env = append(c.env, [2]string{key, value}) }
}

// AllowFailure makes a non-zero exit status a normal result instead of an error.
// Intended for presence and version probes.
func AllowFailure() RunOption {
	return func(c *runConfig) { c.allowFailure = true }
}

// Line renders the full shell line that Run would execute for cmd.
func (s *Session) Line(cmd Command, opts ...RunOption) string {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return s.render(cmd, cfg)
}

func (s *Session) render(cmd Command, cfg *runConfig) string {
	var b strings.Builder
	if cfg.dir != "" {
		b.WriteString("cd ")
		b.WriteString(Quote(cfg.dir))
		b.WriteString(" && ")
	}
	for _, kv := range cfg.env {
		b.WriteString("export ")
		b.WriteString(kv[0])
		b.WriteString("=")
		b.WriteString(Quote(kv[1]))
		b.WriteString(" && ")
	}
	b.WriteString(cmd.String())
	inner := b.String()

	switch {
	case cfg.asUser != "":
		return fmt.Sprintf("sudo -H -u %s sh -c %s", Quote(cfg.asUser), Quote(inner))
	case cfg.sudo && s.user != "root":
		return fmt.Sprintf("sudo -H sh -c %s", Quote(inner))
	default:
		return inner
	}
}

// Run executes cmd. Unless AllowFailure is given, a non-zero exit status is
// returned as a *RemoteCommandError carrying the command output.
func (s *Session) Run(ctx context.Context, cmd Command, opts ...RunOption) (Result, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	line := s.render(cmd, cfg)

	res, err := s.exec.Execute(ctx, line)
	if err != nil {
		return res, fmt.Errorf("failed to execute on %s: %w", s.host, err)
	}
	res.Command = line
	if s.OnCommand != nil {
		s.OnCommand(res)
	}

	if res.Failed() && !cfg.allowFailure {
		return res, &RemoteCommandError{
			Host:       s.host,
			Command:    line,
			ExitStatus: res.ExitStatus,
			Output:     res.Output,
		}
	}
	return res, nil
}

// Output runs cmd and returns its trimmed output.
func (s *Session) Output(ctx context.Context, cmd Command, opts ...RunOption) (string, error) {
	res, err := s.Run(ctx, cmd, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Output), nil
}

// Succeeds runs cmd in allow-failure mode and reports whether it exited zero.
func (s *Session) Succeeds(ctx context.Context, cmd Command, opts ...RunOption) (bool, error) {
	opts = append(opts, AllowFailure())
	res, err := s.Run(ctx, cmd, opts...)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

// Upload writes content to remotePath with the given mode. With Sudo the file
// is staged in /tmp and moved into place as root.
func (s *Session) Upload(ctx context.Context, content io.Reader, remotePath string, mode os.FileMode, opts ...RunOption) error {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.sudo || s.user == "root" {
		if err := s.exec.Upload(ctx, content, remotePath, mode); err != nil {
			return fmt.Errorf("failed to upload %s to %s: %w", remotePath, s.host, err)
		}
		return nil
	}

	staging := fmt.Sprintf("/tmp/hostkit-upload-%d", time.Now().UnixNano())
	if err := s.exec.Upload(ctx, content, staging, 0o600); err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", staging, s.host, err)
	}
	install := Cmd("install", "-m", fmt.Sprintf("%04o", mode.Perm()), staging, remotePath).
		And(Cmd("rm", "-f", staging))
	if _, err := s.Run(ctx, install, Sudo()); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", remotePath, err)
	}
	return nil
}
