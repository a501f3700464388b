package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/redis"
)

// Store backends selectable with APP_STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Lock backends selectable with COMMAND_LOCK.
const (
	LockNone  = "none"
	LockLocal = "local"
	LockRedis = "redis"
)

// Config represents the application configuration.
type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	PostgreSQL   postgresql.Config  `envPrefix:"POSTGRES_"`
	Redis        redis.Config       `envPrefix:"REDIS_"`
	Kafka        KafkaConfig        `envPrefix:"KAFKA_"`
	Outbox       OutboxConfig       `envPrefix:"OUTBOX_"`
	Command      CommandConfig      `envPrefix:"COMMAND_"`
	StateMachine StateMachineConfig `envPrefix:"STATE_MACHINE_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"order-management"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	Store       string `env:"STORE" envDefault:"postgres"`
}

// KafkaConfig represents the Kafka configuration shared by the command intake and the outbox bus.
type KafkaConfig struct {
	Brokers         []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	CommandTopic    string        `env:"COMMAND_TOPIC" envDefault:"order-commands"`
	ConsumerGroup   string        `env:"CONSUMER_GROUP" envDefault:"order-management"`
	ConsumerEnabled bool          `env:"CONSUMER_ENABLED" envDefault:"true"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	BatchTimeout    time.Duration `env:"BATCH_TIMEOUT" envDefault:"5ms"`
}

// OutboxConfig tunes the outbox publisher.
type OutboxConfig struct {
	Topic          string        `env:"TOPIC" envDefault:"order-events"`
	PublishEnabled bool          `env:"PUBLISH_ENABLED" envDefault:"true"`
	ScanInterval   time.Duration `env:"SCAN_INTERVAL" envDefault:"5s"`
	BatchSize      int           `env:"BATCH_SIZE" envDefault:"100"`
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"10"`
	Workers        int           `env:"WORKERS" envDefault:"4"`
	NotifyBuffer   int           `env:"NOTIFY_BUFFER" envDefault:"1024"`
}

// CommandConfig tunes command processing.
type CommandConfig struct {
	// Timeout bounds one command including its transaction. Zero disables it.
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"5s"`
	CloseOnFill  bool          `env:"CLOSE_ON_FILL" envDefault:"false"`
	Lock         string        `env:"LOCK" envDefault:"local"`
	LockTTL      time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	MaxRetries   int           `env:"MAX_RETRIES" envDefault:"3"`
	RetryBackoff time.Duration `env:"RETRY_BACKOFF" envDefault:"200ms"`
}

// StateMachineConfig selects the transition profile.
type StateMachineConfig struct {
	Profile string `env:"PROFILE" envDefault:"standard"`
	// ProfileFile, when set, loads a custom YAML profile and wins over Profile.
	ProfileFile string `env:"PROFILE_FILE"`
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	switch c.App.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("invalid APP_STORE %q", c.App.Store)
	}
	switch c.Command.Lock {
	case LockNone, LockLocal, LockRedis:
	default:
		return fmt.Errorf("invalid COMMAND_LOCK %q", c.Command.Lock)
	}
	if c.Command.MaxRetries < 0 {
		return fmt.Errorf("COMMAND_MAX_RETRIES must not be negative")
	}
	if c.Outbox.ScanInterval <= 0 {
		return fmt.Errorf("OUTBOX_SCAN_INTERVAL must be positive")
	}
	if c.Outbox.Workers <= 0 || c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("OUTBOX_WORKERS and OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
