// Package main is the entry point for the hostkit CLI.
//
// hostkit provisions Django applications and their supporting tools on
// Debian and Ubuntu hosts over SSH: nginx, gunicorn under supervisor,
// PostgreSQL, poetry and TLS certificates.
//
// Commands: deploy, update, flush-cache, manage, prep, golang,
// python-tools, check, init, keygen.
//
// For detailed usage information, run:
//
//	hostkit --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/hostkit/cmd/hostkit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
