package hcloud

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/util/retry"
)

// TokenEnv is the environment variable holding the API token.
const TokenEnv = "HCLOUD_TOKEN"

// Target is a server hostkit can connect to.
type Target struct {
	Name string
	Addr string
}

// Resolver looks servers up in the Hetzner Cloud API.
type Resolver struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeouts sets custom retry settings for API calls.
func WithTimeouts(t *config.Timeouts) ResolverOption {
	return func(r *Resolver) {
		r.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = hc
	}
}

// NewResolver creates a Resolver authenticated with token.
func NewResolver(token string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("hostkit", "")),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewResolverFromEnv creates a Resolver using HCLOUD_TOKEN.
func NewResolverFromEnv(opts ...ResolverOption) (*Resolver, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%s is not set", TokenEnv)
	}
	return NewResolver(token, opts...), nil
}

// ByName returns the server called name.
func (r *Resolver) ByName(ctx context.Context, name string) (Target, error) {
	var server *hcloud.Server
	err := r.withRetry(ctx, func() error {
		var err error
		server, _, err = r.client.Server.Get(ctx, name)
		return err
	})
	if err != nil {
		return Target{}, fmt.Errorf("failed to get server %s: %w", name, err)
	}
	if server == nil {
		return Target{}, fmt.Errorf("server not found: %s", name)
	}
	return target(server)
}

// BySelector returns every server matching the label selector, sorted by name.
func (r *Resolver) BySelector(ctx context.Context, selector string) ([]Target, error) {
	if selector == "" {
		return nil, fmt.Errorf("label selector cannot be empty")
	}

	var servers []*hcloud.Server
	err := r.withRetry(ctx, func() error {
		var err error
		servers, err = r.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: selector},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("no servers match label selector %q", selector)
	}

	targets := make([]Target, 0, len(servers))
	for _, s := range servers {
		t, err := target(s)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets, nil
}

func (r *Resolver) withRetry(ctx context.Context, op func() error) error {
	return retry.WithExponentialBackoff(ctx, op,
		retry.WithMaxRetries(r.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(r.timeouts.RetryInitialDelay),
		retry.WithRetryIf(isRetryable),
	)
}

func target(s *hcloud.Server) (Target, error) {
	if s.PublicNet.IPv4.IP == nil || s.PublicNet.IPv4.IP.IsUnspecified() {
		return Target{}, fmt.Errorf("server %s has no public IPv4", s.Name)
	}
	return Target{Name: s.Name, Addr: s.PublicNet.IPv4.IP.String()}, nil
}
