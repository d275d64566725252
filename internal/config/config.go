package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthConfig
	JWT      JWTConfig
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `env:"HTTP_PORT" env-default:"8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StorageConfig struct {
	Backend    string `env:"STORAGE_BACKEND" env-default:"file"`
	Key        string `env:"STORAGE_KEY" env-default:"todos"`
	FilePath   string `env:"STORAGE_FILE_PATH" env-default:"todos.json"`
	SQLitePath string `env:"STORAGE_SQLITE_PATH" env-default:"todos.db"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB" env-default:"0"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT" env-default:"5s"`
}

type AuthConfig struct {
	// PasswordHash is an argon2id hash of the owner password. Auth is
	// disabled when it is empty.
	PasswordHash string `env:"AUTH_PASSWORD_HASH"`
}

type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER" env-default:"todo-assistant"`
	SigningKey     string        `env:"JWT_SIGNING_KEY"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"1h"`
}

func (c *Config) AuthEnabled() bool {
	return c.Auth.PasswordHash != ""
}

// Validate checks values that cleanenv cannot express with tags.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{EnvDev, EnvProd, EnvLocal}, c.Env) {
		errs = append(errs, fmt.Errorf("unknown env: %s", c.Env))
	}

	switch c.Storage.Backend {
	case StorageFile, StorageMemory, StorageSQLite, StorageRedis:
	case StoragePostgres:
		if c.Postgres.Host == "" || c.Postgres.Username == "" || c.Postgres.Database == "" {
			errs = append(errs, errors.New("postgres storage requires POSTGRES_HOST, POSTGRES_USERNAME and POSTGRES_DATABASE"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend: %s", c.Storage.Backend))
	}

	if c.Storage.Key == "" {
		errs = append(errs, errors.New("storage key is empty"))
	}

	if c.AuthEnabled() {
		if c.JWT.SigningKey == "" {
			errs = append(errs, errors.New("JWT_SIGNING_KEY is required when auth is enabled"))
		}
		if c.JWT.AccessTokenTTL <= 0 {
			errs = append(errs, errors.New("JWT_ACCESS_TOKEN_TTL must be positive"))
		}
	}

	return errors.Join(errs...)
}
