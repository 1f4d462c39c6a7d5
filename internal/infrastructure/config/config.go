package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	StorageDriver   string        `env:"STORAGE_DRIVER,   default=postgres"`

	JWT      JWTConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	// TTL of zero issues tokens without an exp claim.
	TTL    time.Duration `env:"JWT_TTL, default=24h"`
}

type PostgresConfig struct {
	Host        string `env:"POSTGRES_HOST,      default=localhost"`
	Port        int    `env:"POSTGRES_PORT,      default=5432"`
	User        string `env:"POSTGRES_USER,      default=conduit"`
	Password    string `env:"POSTGRES_PASSWORD,  default=conduit"`
	Database    string `env:"POSTGRES_DB,        default=conduit"`
	SSLMode     string `env:"POSTGRES_SSLMODE,   default=disable"`
	MaxConns    int32  `env:"POSTGRES_MAX_CONNS, default=10"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE,    default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=conduit"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=true"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	TagsTTL  time.Duration `env:"TAGS_CACHE_TTL, default=5m"`
}

// DSN renders the connection URL understood by both pgx and golang-migrate.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// Load reads configuration from the process environment using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.JWT.TTL < 0 {
		return errors.New("config: JWT_TTL must not be negative")
	}
	switch c.StorageDriver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// LoadDotEnv loads .env.<env> and then .env into the process environment.
// Variables already set are never overridden and missing files are skipped.
func LoadDotEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = []string{".env." + env, ".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
