package config

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

const keySize = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// PasetoKey is the 32-byte symmetric token key, given either as 32 raw
	// characters or as 64 hex digits.
	PasetoKey string        `env:"PASETO_KEY, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	StoreDriver      string   `env:"STORE_DRIVER,       default=postgres"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Moderation ModerationConfig
	Postgres   PostgresConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type ModerationConfig struct {
	APIKey  string        `env:"BAD_WORDS_API_KEY,  required"`
	BaseURL string        `env:"BAD_WORDS_URL,      default=https://api.apilayer.com"`
	Timeout time.Duration `env:"MODERATION_TIMEOUT, default=10s"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST,     default=localhost"`
	Port     int    `env:"POSTGRES_PORT,     default=5432"`
	User     string `env:"POSTGRES_USER,     default=postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB,       default=rustwebdev"`
	SSLMode  string `env:"POSTGRES_SSLMODE,  default=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=question_and_answer"`
}

// RedisConfig enables the moderation verdict cache when Addr is set.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Moderation.Timeout <= 0 {
		return fmt.Errorf("MODERATION_TIMEOUT must be positive")
	}
	_, err := c.Key()
	return err
}

// Key decodes PasetoKey.
func (c *Config) Key() ([]byte, error) {
	switch len(c.PasetoKey) {
	case keySize:
		return []byte(c.PasetoKey), nil
	case 2 * keySize:
		key, err := hex.DecodeString(c.PasetoKey)
		if err != nil {
			return nil, fmt.Errorf("PASETO_KEY: %w", err)
		}
		return key, nil
	}
	return nil, fmt.Errorf("PASETO_KEY must be %d characters or %d hex digits", keySize, 2*keySize)
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
