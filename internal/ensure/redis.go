package ensure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/hostkit/internal/remote"
)

// deleteBatch is the number of keys passed to one DEL.
const deleteBatch = 500

// RedisTarget addresses one database of the redis server on the host.
type RedisTarget struct {
	DB       int
	Port     int
	Password string
}

func (t RedisTarget) cli(args ...string) remote.Command {
	c := remote.Cmd("redis-cli")
	if t.Port != 0 {
		c = c.Arg("-p", strconv.Itoa(t.Port))
	}
	return c.Arg("-n", strconv.Itoa(t.DB)).Arg(args...)
}

// runOpts passes the password through REDISCLI_AUTH so it never shows up
// in the process list.
func (t RedisTarget) runOpts() []remote.RunOption {
	if t.Password == "" {
		return nil
	}
	return []remote.RunOption{remote.WithEnv("REDISCLI_AUTH", t.Password)}
}

// NamespacePattern returns the SCAN pattern matching exactly the keys of
// namespace: glob metacharacters in the namespace are escaped.
func NamespacePattern(namespace string) string {
	var b strings.Builder
	for _, r := range namespace {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteString(":*")
	return b.String()
}

// ScanNamespaceCommand lists the keys of namespace. SCAN is used so large
// databases do not block the server.
func ScanNamespaceCommand(t RedisTarget, namespace string) remote.Command {
	return t.cli("--scan", "--pattern", NamespacePattern(namespace))
}

// DeleteKeysCommand deletes keys with a single DEL.
func DeleteKeysCommand(t RedisTarget, keys []string) remote.Command {
	return t.cli("DEL").Arg(keys...)
}

// FlushNamespace deletes every key of namespace and returns the number of
// keys deleted. The scan and every DEL batch run as separate commands so a
// failing redis-cli is reported instead of looking like an empty namespace.
func (h *Host) FlushNamespace(ctx context.Context, t RedisTarget, namespace string) (int, error) {
	if namespace == "" {
		return 0, fmt.Errorf("redis namespace cannot be empty")
	}
	if t.DB < 0 {
		return 0, fmt.Errorf("invalid redis database %d", t.DB)
	}

	out, err := h.sess.Output(ctx, ScanNamespaceCommand(t, namespace), t.runOpts()...)
	if err != nil {
		return 0, fmt.Errorf("failed to scan redis namespace %s in db %d: %w", namespace, t.DB, err)
	}
	keys, err := scannedKeys(out, namespace)
	if err != nil {
		return 0, fmt.Errorf("failed to scan redis namespace %s in db %d: %w", namespace, t.DB, err)
	}

	deleted := 0
	for start := 0; start < len(keys); start += deleteBatch {
		end := min(start+deleteBatch, len(keys))
		out, err := h.sess.Output(ctx, DeleteKeysCommand(t, keys[start:end]), t.runOpts()...)
		if err != nil {
			return deleted, fmt.Errorf("failed to delete keys of %s in db %d: %w", namespace, t.DB, err)
		}
		n, err := deletedCount(out)
		if err != nil {
			return deleted, fmt.Errorf("failed to delete keys of %s in db %d: %w", namespace, t.DB, err)
		}
		deleted += n
	}
	return deleted, nil
}

// scannedKeys splits the scan output. redis-cli exits zero on some error
// replies (NOAUTH, WRONGPASS), so any line outside the namespace is treated
// as an error message.
func scannedKeys(out, namespace string) ([]string, error) {
	var keys []string
	prefix := namespace + ":"
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, prefix) {
			return nil, fmt.Errorf("unexpected redis-cli output: %s", strings.TrimSpace(out))
		}
		keys = append(keys, line)
	}
	return keys, nil
}

// deletedCount parses the integer reply of DEL.
func deletedCount(out string) (int, error) {
	reply := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "(integer)"))
	n, err := strconv.Atoi(reply)
	if err != nil {
		return 0, fmt.Errorf("unexpected redis-cli output: %s", strings.TrimSpace(out))
	}
	return n, nil
}
