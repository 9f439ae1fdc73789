package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCmd_QuotesArguments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{
			name: "plain words stay bare",
			cmd:  Cmd("git", "clone", "https://example.com/app.git", "/srv/app"),
			want: "git clone https://example.com/app.git /srv/app",
		},
		{
			name: "spaces are quoted",
			cmd:  Cmd("echo", "hello world"),
			want: "echo 'hello world'",
		},
		{
			name: "injection attempt stays one argument",
			cmd:  Cmd("echo", "x; rm -rf /"),
			want: "echo 'x; rm -rf /'",
		},
		{
			name: "single quote is escaped",
			cmd:  Cmd("echo", "it's"),
			want: `echo 'it'"'"'s'`,
		},
		{
			name: "empty argument",
			cmd:  Cmd("printf", ""),
			want: "printf ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cmd.String())
		})
	}
}

func TestCommand_Combinators(t *testing.T) {
	t.Parallel()

	c := Cmd("test", "-d", "/srv/app").
		And(Cmd("git", "-C", "/srv/app", "pull")).
		Or(Cmd("true"))
	assert.Equal(t, "test -d /srv/app && git -C /srv/app pull || true", c.String())

	p := Cmd("redis-cli", "keys", "a:*").Pipe(Cmd("wc", "-l"))
	assert.Equal(t, "redis-cli keys 'a:*' | wc -l", p.String())

	a := Cmd("pipenv").Arg("--version").Append("2>/dev/null")
	assert.Equal(t, "pipenv --version 2>/dev/null", a.String())
}

func TestCommand_IsZero(t *testing.T) {
	t.Parallel()
	assert.True(t, Command{}.IsZero())
	assert.False(t, Raw("true").IsZero())
}
