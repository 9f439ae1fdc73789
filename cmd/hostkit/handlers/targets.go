package handlers

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/imamik/hostkit/internal/platform/hcloud"
)

// targetResolver looks hosts up by cloud server name or label selector.
type targetResolver interface {
	ByName(ctx context.Context, name string) (hcloud.Target, error)
	BySelector(ctx context.Context, selector string) ([]hcloud.Target, error)
}

// resolveTargets returns the hosts named by --host followed by the cloud
// lookups, without duplicates. The cloud API is only contacted when a cloud
// flag is set.
func resolveTargets(ctx context.Context, g *GlobalOptions) ([]hcloud.Target, error) {
	var targets []hcloud.Target
	seen := make(map[string]bool)
	add := func(t hcloud.Target) {
		if seen[t.Addr] {
			return
		}
		seen[t.Addr] = true
		targets = append(targets, t)
	}

	for _, h := range g.Hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(h); err == nil {
			return nil, fmt.Errorf("invalid host %q: use --port to set the SSH port", h)
		}
		add(hcloud.Target{Name: h, Addr: h})
	}

	if len(g.HCloudServers) == 0 && g.HCloudSelector == "" {
		return targets, nil
	}

	resolver, err := newResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Hetzner Cloud lookup: %w", err)
	}
	for _, name := range g.HCloudServers {
		t, err := resolver.ByName(ctx, name)
		if err != nil {
			return nil, err
		}
		add(t)
	}
	if g.HCloudSelector != "" {
		found, err := resolver.BySelector(ctx, g.HCloudSelector)
		if err != nil {
			return nil, err
		}
		for _, t := range found {
			add(t)
		}
	}
	return targets, nil
}
