package remote

import (
	"strings"

	"github.com/alessio/shellescape"
)

// Command is a shell command line built from quoted arguments.
//
// Values that come from configuration must only enter a Command through Cmd
// or Arg, which quote them. Raw is reserved for fixed fragments written in
// this codebase (redirections, globs on constant paths).
type Command struct {
	line string
}

// Cmd builds a command from a program name and its arguments, quoting each one.
func Cmd(name string, args ...string) Command {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellescape.Quote(name))
	for _, a := range args {
		parts = append(parts, shellescape.Quote(a))
	}
	return Command{line: strings.Join(parts, " ")}
}

// Raw wraps a trusted, constant shell fragment without quoting.
func Raw(line string) Command {
	return Command{line: line}
}

// Arg appends quoted arguments.
func (c Command) Arg(args ...string) Command {
	line := c.line
	for _, a := range args {
		line += " " + shellescape.Quote(a)
	}
	return Command{line: line}
}

// Append appends a trusted, unquoted fragment such as "2>/dev/null".
func (c Command) Append(fragment string) Command {
	return Command{line: c.line + " " + fragment}
}

// Pipe connects the standard output of c to next.
func (c Command) Pipe(next Command) Command {
	return Command{line: c.line + " | " + next.line}
}

// And runs next only when c succeeds.
func (c Command) And(next Command) Command {
	return Command{line: c.line + " && " + next.line}
}

// Or runs next only when c fails.
func (c Command) Or(next Command) Command {
	return Command{line: c.line + " || " + next.line}
}

// IsZero reports whether the command is empty.
func (c Command) IsZero() bool {
	return c.line == ""
}

// String returns the shell line.
func (c Command) String() string {
	return c.line
}

// Quote quotes a single value for safe interpolation into a shell line.
func Quote(s string) string {
	return shellescape.Quote(s)
}
