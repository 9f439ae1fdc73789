package ensure

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/hostkit/internal/remote"
)

const postgresUser = "postgres"

var postgresPackages = []string{"postgresql", "postgresql-contrib", "libpq-dev"}

// PostgresServer installs PostgreSQL and makes sure it is running.
func (h *Host) PostgresServer(ctx context.Context) error {
	if err := h.Packages(ctx, postgresPackages...); err != nil {
		return err
	}
	running, err := h.sess.Succeeds(ctx, remote.Cmd("systemctl", "is-active", "--quiet", "postgresql"))
	if err != nil {
		return err
	}
	if running {
		return nil
	}
	if _, err := h.sess.Run(ctx, remote.Cmd("systemctl", "enable", "--now", "postgresql"), remote.Sudo()); err != nil {
		return fmt.Errorf("failed to start postgresql: %w", err)
	}
	return nil
}

// PostgresUser creates a login role with password unless it exists.
func (h *Host) PostgresUser(ctx context.Context, name, password string) error {
	exists, err := h.psqlExists(ctx, "SELECT 1 FROM pg_roles WHERE rolname = "+quoteLiteral(name))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	stmt := fmt.Sprintf("CREATE ROLE %s WITH LOGIN PASSWORD %s", quoteIdent(name), quoteLiteral(password))
	if err := h.psql(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create postgres user %s: %w", name, err)
	}
	return nil
}

// PostgresDatabase creates a UTF-8 database owned by owner unless it exists.
func (h *Host) PostgresDatabase(ctx context.Context, name, owner string) error {
	exists, err := h.psqlExists(ctx, "SELECT 1 FROM pg_database WHERE datname = "+quoteLiteral(name))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	create := remote.Cmd("createdb", "--owner", owner, "--encoding", "UTF8", "--template", "template0", name)
	if _, err := h.sess.Run(ctx, create, remote.AsUser(postgresUser), remote.InDir("/tmp")); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

func (h *Host) psqlExists(ctx context.Context, query string) (bool, error) {
	out, err := h.sess.Output(ctx, remote.Cmd("psql", "-tAc", query),
		remote.AsUser(postgresUser), remote.InDir("/tmp"))
	if err != nil {
		return false, err
	}
	return out == "1", nil
}

func (h *Host) psql(ctx context.Context, stmt string) error {
	_, err := h.sess.Run(ctx, remote.Cmd("psql", "-v", "ON_ERROR_STOP=1", "-c", stmt),
		remote.AsUser(postgresUser), remote.InDir("/tmp"))
	return err
}

// quoteIdent quotes a PostgreSQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteLiteral quotes a PostgreSQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
