// Package netutil waits for hosts to accept connections.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DialFunc opens a connection.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

const (
	probeInterval = time.Second
	probeTimeout  = 2 * time.Second
)

// WaitForPort waits for a TCP port on host to accept connections, probing
// every second until timeout. A nil dial uses net.Dialer.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration, dial DialFunc) error {
	if dial == nil {
		var d net.Dialer
		dial = d.DialContext
	}
	address := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	probe := func() bool {
		pctx, pcancel := context.WithTimeout(ctx, probeTimeout)
		defer pcancel()
		conn, err := dial(pctx, "tcp", address)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}

	if probe() {
		return nil
	}

	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timeout waiting for %s", address)
			}
			return ctx.Err()
		case <-ticker.C:
			if probe() {
				return nil
			}
		}
	}
}
