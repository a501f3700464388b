package redis

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger    logger.Interface
	config    *Config
	universal redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger logger.Interface, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) validate() error {
	switch {
	case c.config == nil:
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	case len(c.config.Addrs) == 0:
		return errors.NewErrorDetails("Redis addresses are empty", string(errors.RedisConfigError), "addrs")
	case c.config.Mode != Standalone && c.config.Mode != Cluster:
		return errors.NewErrorDetails("Invalid Redis mode", string(errors.RedisConfigError), "mode")
	case c.config.ConnectTimeout <= 0:
		return errors.NewErrorDetails("Invalid Redis connect timeout", string(errors.RedisConfigError), "connect_timeout")
	case c.config.PoolSize <= 0:
		return errors.NewErrorDetails("Invalid Redis pool size", string(errors.RedisConfigError), "pool_size")
	case c.config.MaxRetries < 0:
		return errors.NewErrorDetails("Invalid Redis max retries", string(errors.RedisConfigError), "max_retries")
	}
	return nil
}

func (c *client) Connect(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}

	switch c.config.Mode {
	case Standalone:
		c.universal = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		c.universal = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := c.universal.Ping(ctx).Err(); err != nil {
		c.logger.Error(errors.TracerFromError(err), logger.NewField("addrs", c.config.Addrs))
		return errors.NewErrorDetails("Failed to connect to Redis", string(errors.RedisConnectionError), "connect")
	}

	c.logger.Info("Connected to Redis", logger.NewField("mode", c.config.Mode), logger.NewField("addrs", c.config.Addrs))
	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.universal == nil {
		return nil
	}
	if err := c.universal.Close(); err != nil {
		return errors.NewErrorDetails("Failed to close Redis client", string(errors.RedisDisconnectionError), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.universal.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) Key(key string) string {
	return c.config.PrefixKey + key
}

func (c *client) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	ok, err := c.universal.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, errors.NewErrorDetails("Failed to set value with NX in Redis", string(errors.RedisSetNXError), "setnx")
	}
	return ok, nil
}

func (c *client) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	res, err := c.universal.Eval(ctx, script, keys, args...).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.NewErrorDetails("Failed to run script in Redis", string(errors.RedisEvalError), "eval")
	}
	return res, nil
}
