package django

import (
	"fmt"
	"net"
	"strconv"

	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/platform/redis"
	"github.com/imamik/hostkit/internal/provisioning"
)

// FlushCache returns the task deleting every key of one namespace in one
// redis database. With redis_tunnel set, the keys are scanned and deleted
// over a connection tunnelled through SSH instead of with redis-cli on the
// host.
func FlushCache() provisioning.Task {
	return provisioning.Task{
		Name:        "flush-cache",
		Description: "Delete the keys of a redis namespace",
		Schema:      FlushSchema,
		Steps: []provisioning.Step{
			provisioning.NewStep("flush", flushNamespace),
		},
	}
}

func flushNamespace(ctx *provisioning.Context) error {
	db, err := ctx.Options.Int(KeyRedisDB)
	if err != nil {
		return err
	}
	namespace := ctx.Options.String(KeyRedisNamespace)
	redisPort := 0
	if ctx.Options.Has(KeyRedisPort) {
		if redisPort, err = port(ctx.Options, KeyRedisPort); err != nil {
			return err
		}
	}

	var deleted int
	if ctx.Options.Bool(KeyRedisTunnel) {
		deleted, err = flushOverTunnel(ctx, db, redisPort, namespace)
	} else {
		deleted, err = ctx.Host.FlushNamespace(ctx, ensure.RedisTarget{
			DB:       db,
			Port:     redisPort,
			Password: ctx.Options.String(KeyRedisPassword),
		}, namespace)
	}
	if err != nil {
		return err
	}

	ctx.State.KeysDeleted = deleted
	ctx.Observer.Printf("[flush] Deleted %d key(s) matching %s in db %d", deleted, ensure.NamespacePattern(namespace), db)
	return nil
}

func flushOverTunnel(ctx *provisioning.Context, db, redisPort int, namespace string) (int, error) {
	if ctx.Dialer == nil {
		return 0, fmt.Errorf("%s requires an SSH connection", KeyRedisTunnel)
	}
	if namespace == "" {
		return 0, fmt.Errorf("redis namespace cannot be empty")
	}

	addr := redis.DefaultAddr
	if redisPort != 0 {
		addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(redisPort))
	}
	conn, err := redis.Dial(ctx, ctx.Dialer.Dial, redis.Config{
		Addr:     addr,
		DB:       db,
		Password: ctx.Options.String(KeyRedisPassword),
	})
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return redis.FlushNamespace(ctx, conn, ensure.NamespacePattern(namespace), 0)
}
