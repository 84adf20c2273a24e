package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Dispatch DispatchConfig
	Limits   RateLimitConfig
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET, default=dev-secret-key-change-this-in-production"`
	TTL          time.Duration `env:"SESSION_TTL,    default=720h"`
	CookieName   string        `env:"SESSION_COOKIE, default=marketplace_session"`
	CookieSecure bool          `env:"COOKIE_SECURE,  default=false"`
}

type MongoConfig struct {
	URI          string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database     string        `env:"MONGO_DB,              default=freelance_db"`
	Timeout      time.Duration `env:"MONGO_TIMEOUT,         default=5s"`
	Transactions bool          `env:"MONGO_TRANSACTIONS,    default=true"`
	// HealthInterval is how often the server re-pings MongoDB to notice
	// outages and recoveries.
	HealthInterval time.Duration `env:"MONGO_HEALTH_INTERVAL, default=5s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type KafkaConfig struct {
	// Brokers is a comma-separated list; empty logs activity instead.
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC, default=marketplace.activity"`
}

type DispatchConfig struct {
	Workers int `env:"DISPATCH_WORKERS, default=4"`
}

type RateLimitConfig struct {
	// Rate is the sustained number of auth requests per second per client IP.
	Rate  float64 `env:"RATE_LIMIT, default=1"`
	Burst int     `env:"RATE_BURST, default=5"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadFrom reads configuration through lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.IsProduction() && cfg.Session.Secret == "dev-secret-key-change-this-in-production" {
		return nil, fmt.Errorf("config: SESSION_SECRET must be set in production")
	}
	return &cfg, nil
}
