// Package ssh provides the SSH transport used to run provisioning commands on
// remote hosts. It handles connection establishment with retry logic, key file
// and ssh-agent authentication, known_hosts verification and file uploads.
//
// Security: host key verification is disabled unless a known_hosts file or a
// HostKeyCallback is configured.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/hostkit/internal/remote"
	"github.com/imamik/hostkit/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 5
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host string
	Port int
	User string

	// PrivateKey is a PEM encoded private key. Optional when UseAgent is set.
	PrivateKey []byte
	// Passphrase decrypts PrivateKey if it is encrypted.
	Passphrase []byte
	// UseAgent adds the keys of the agent at $SSH_AUTH_SOCK.
	UseAgent bool

	// KnownHostsFile enables host key verification against an OpenSSH
	// known_hosts file.
	KnownHostsFile string

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback overrides KnownHostsFile.
	// If both are empty, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// Client executes commands on a remote server via SSH.
// The connection is established on the first command and reused until Close.
type Client struct {
	config  *Config
	auth    []ssh.AuthMethod
	hostKey ssh.HostKeyCallback

	mu     sync.Mutex
	client *ssh.Client
}

var _ remote.Executor = (*Client)(nil)

// NewClient validates cfg and prepares authentication. No connection is made.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 && !cfg.UseAgent {
		return nil, fmt.Errorf("config needs a private key or ssh-agent")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}

	c := &Client{config: &configCopy}

	if len(configCopy.PrivateKey) > 0 {
		signer, err := parseKey(configCopy.PrivateKey, configCopy.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		c.auth = append(c.auth, ssh.PublicKeys(signer))
	}

	if configCopy.UseAgent {
		sock := os.Getenv("SSH_AUTH_SOCK")
		if sock == "" {
			return nil, fmt.Errorf("ssh-agent requested but SSH_AUTH_SOCK is not set")
		}
		c.auth = append(c.auth, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			conn, err := net.Dial("unix", sock)
			if err != nil {
				return nil, fmt.Errorf("failed to reach ssh-agent: %w", err)
			}
			return agent.NewClient(conn).Signers()
		}))
	}

	switch {
	case configCopy.HostKeyCallback != nil:
		c.hostKey = configCopy.HostKeyCallback
	case configCopy.KnownHostsFile != "":
		cb, err := knownhosts.New(configCopy.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts %s: %w", configCopy.KnownHostsFile, err)
		}
		c.hostKey = cb
	default:
		c.hostKey = ssh.InsecureIgnoreHostKey() //nolint:gosec // opt-in verification via KnownHostsFile
	}

	return c, nil
}

func parseKey(pemBytes, passphrase []byte) (ssh.Signer, error) {
	if len(passphrase) > 0 {
		return ssh.ParsePrivateKeyWithPassphrase(pemBytes, passphrase)
	}
	return ssh.ParsePrivateKey(pemBytes)
}

// Addr returns host:port of the target.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// Execute runs a command on the remote host. A non-zero exit status is
// reported in the result, not as an error.
func (c *Client) Execute(ctx context.Context, line string) (remote.Result, error) {
	session, err := c.newSession(ctx)
	if err != nil {
		return remote.Result{}, err
	}
	defer func() { _ = session.Close() }()

	stop := closeOnCancel(ctx, session)
	defer stop()

	output, err := session.CombinedOutput(line)
	return c.result(line, output, err)
}

// Upload streams content to remotePath over the session's stdin and applies mode.
func (c *Client) Upload(ctx context.Context, content io.Reader, remotePath string, mode os.FileMode) error {
	session, err := c.newSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	stop := closeOnCancel(ctx, session)
	defer stop()

	session.Stdin = content
	line := remote.Cmd("cat").Append("> " + remote.Quote(remotePath)).
		And(remote.Cmd("chmod", strconv.FormatUint(uint64(mode.Perm()), 8), remotePath)).
		String()

	output, err := session.CombinedOutput(line)
	res, err := c.result(line, output, err)
	if err != nil {
		return err
	}
	if res.Failed() {
		return &remote.RemoteCommandError{
			Host:       c.config.Host,
			Command:    line,
			ExitStatus: res.ExitStatus,
			Output:     res.Output,
		}
	}
	return nil
}

// Dial opens a connection from the remote host to addr, for tunnelling to
// services bound to the remote loopback interface.
func (c *Client) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	client, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := client.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open tunnel to %s via %s: %w", addr, c.config.Host, err)
	}
	return conn, nil
}

// Close closes the underlying connection if one was established.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *Client) result(line string, output []byte, err error) (remote.Result, error) {
	res := remote.Result{Command: line, Output: string(output)}
	if err == nil {
		return res, nil
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		res.ExitStatus = exitErr.ExitStatus()
		return res, nil
	}
	return res, fmt.Errorf("command did not complete on %s: %w", c.config.Host, err)
}

// newSession opens a session, reconnecting once if the cached connection died.
func (c *Client) newSession(ctx context.Context) (*ssh.Session, error) {
	client, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	session, err := client.NewSession()
	if err == nil {
		return session, nil
	}

	c.drop(client)
	client, err = c.connection(ctx)
	if err != nil {
		return nil, err
	}
	session, err = client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	return session, nil
}

func (c *Client) drop(stale *ssh.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == stale {
		_ = c.client.Close()
		c.client = nil
	}
}

// connection returns the cached connection or establishes one with retry.
func (c *Client) connection(ctx context.Context) (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	config := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            c.auth,
		HostKeyCallback: c.hostKey,
		Timeout:         c.config.DialTimeout,
	}

	addr := c.Addr()
	var client *ssh.Client
	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, config)
		if dialErr != nil && isAuthFailure(dialErr) {
			return retry.Fatal(dialErr)
		}
		return dialErr
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	c.client = client
	return client, nil
}

// isAuthFailure reports errors that retrying cannot fix.
func isAuthFailure(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "no supported methods remain")
}

// closeOnCancel closes the session if ctx is cancelled before stop is called.
func closeOnCancel(ctx context.Context, session *ssh.Session) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}
