package lock

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/pkg/util"
)

// unlockScript deletes the key only while it still holds our token.
const unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

const (
	defaultTTL       = 10 * time.Second
	defaultRetry     = 20 * time.Millisecond
	releaseTimeout   = 2 * time.Second
	orderLockKeyPart = "lock:order:"
)

// Redis is a lock shared by every instance using the same Redis. A holder that
// dies keeps the key until its TTL expires.
type Redis struct {
	client redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger logger.Interface
}

// NewRedis creates a Redis lock. A zero ttl uses 10s.
func NewRedis(client redis.Client, ttl time.Duration, log logger.Interface) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl, retry: defaultRetry, logger: log}
}

// Lock polls SET NX until the key is acquired or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.client.Key(orderLockKeyPart + key)
	token := util.GenerateID()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		if ok {
			return func() { r.release(redisKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.TracerFromError(ctx.Err())
		case <-time.After(r.retry):
		}
	}
}

func (r *Redis) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if _, err := r.client.Eval(ctx, unlockScript, []string{key}, token); err != nil {
		r.logger.Error(err, logger.NewField("action", "release_lock"), logger.NewField("key", key))
	}
}
