package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/dharmil18/betterbank-auth-service/pkg/idx"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces guard keys in Redis.
const KeyPrefix = "betterbank:provisioning:"

// releaseScript deletes the key only if the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript restarts the TTL of the caller's hold, or takes the key again
// when it has expired and is free.
var extendScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if current == false then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
return 0
`)

// Redis is a guard shared by every replica pointing at the same Redis.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis wraps client. ttl defaults to DefaultTTL.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := idx.New().String()

	ok, err := r.client.SetNX(ctx, KeyPrefix+key, token, r.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("guard: acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (r *Redis) Extend(ctx context.Context, key, token string) (bool, error) {
	n, err := extendScript.Run(ctx, r.client, []string{KeyPrefix + key}, token, r.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("guard: extend: %w", err)
	}
	return n == 1, nil
}

func (r *Redis) Release(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, r.client, []string{KeyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("guard: release: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
