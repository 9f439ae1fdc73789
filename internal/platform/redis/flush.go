package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gomodule/redigo/redis"
)

const (
	// DefaultAddr is where redis listens on a stock Debian/Ubuntu host.
	DefaultAddr = "127.0.0.1:6379"

	defaultBatch   = 500
	defaultTimeout = 30 * time.Second
)

// DialFunc opens a network connection, typically through an SSH client.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Config holds connection settings for a namespace flush.
type Config struct {
	Addr     string
	DB       int
	Password string
	// Batch is the SCAN COUNT hint and the maximum keys per DEL.
	Batch int
	// Timeout bounds each read and write on the connection.
	Timeout time.Duration
}

// Dial connects to the redis server at cfg.Addr using dial and selects cfg.DB.
func Dial(ctx context.Context, dial DialFunc, cfg Config) (redis.Conn, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DB < 0 {
		return nil, fmt.Errorf("invalid redis database %d", cfg.DB)
	}

	opts := []redis.DialOption{
		redis.DialDatabase(cfg.DB),
		redis.DialReadTimeout(cfg.Timeout),
		redis.DialWriteTimeout(cfg.Timeout),
	}
	if dial != nil {
		opts = append(opts, redis.DialContextFunc(dial))
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}

	conn, err := redis.DialContext(ctx, "tcp", cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return conn, nil
}

// FlushNamespace deletes every key matching pattern on conn and returns the
// number of keys deleted. Keys are walked with SCAN and deleted batch by batch.
func FlushNamespace(ctx context.Context, conn redis.Conn, pattern string, batch int) (int, error) {
	if batch <= 0 {
		batch = defaultBatch
	}

	cursor := "0"
	total := 0
	for {
		values, err := redis.Values(redis.DoContext(conn, ctx, "SCAN", cursor, "MATCH", pattern, "COUNT", batch))
		if err != nil {
			return total, fmt.Errorf("failed to scan for %s: %w", pattern, err)
		}
		if len(values) != 2 {
			return total, fmt.Errorf("unexpected SCAN reply with %d elements", len(values))
		}
		cursor, err = redis.String(values[0], nil)
		if err != nil {
			return total, fmt.Errorf("failed to read SCAN cursor: %w", err)
		}
		keys, err := redis.Strings(values[1], nil)
		if err != nil {
			return total, fmt.Errorf("failed to read SCAN keys: %w", err)
		}

		for start := 0; start < len(keys); start += batch {
			end := min(start+batch, len(keys))
			n, err := redis.Int(redis.DoContext(conn, ctx, "DEL", redis.Args{}.AddFlat(keys[start:end])...))
			if err != nil {
				return total, fmt.Errorf("failed to delete keys matching %s: %w", pattern, err)
			}
			total += n
		}

		if cursor == "0" {
			return total, nil
		}
	}
}
