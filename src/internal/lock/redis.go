package lock

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

// RedisStore keeps locks in Redis so every service instance sharing the
// server excludes each other.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) TryLock(ctx context.Context, key, token string, lease time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, token, lease).Result()
}

func (s *RedisStore) Unlock(ctx context.Context, key, token string) error {
	err := unlockScript.Run(ctx, s.client, []string{key}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
