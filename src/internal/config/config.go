package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=account_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
)

type Config struct {
	HTTPAddr            string
	DatabaseDSN         string
	MigrationsDir       string
	StorageDriver       string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	LockBackend         string
	LockKeyPrefix       string
	LockWaitTimeout     time.Duration
	LockLeaseTime       time.Duration
	LockRetryInterval   time.Duration
	TransactionCacheTTL time.Duration
	LogLevel            string
	TracingStdout       bool
}

// Load reads defaults, then an optional config.yaml (or the file named by
// CONFIG_FILE), then environment variables.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_DSN", defaultConnectionString)
	v.SetDefault("MIGRATIONS_DIR", "src/migrations")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_BACKEND", LockBackendRedis)
	v.SetDefault("LOCK_KEY_PREFIX", "ACLK:")
	v.SetDefault("LOCK_WAIT_TIMEOUT", 5*time.Second)
	v.SetDefault("LOCK_LEASE_TIME", 15*time.Second)
	v.SetDefault("LOCK_RETRY_INTERVAL", 50*time.Millisecond)
	v.SetDefault("TRANSACTION_CACHE_TTL", 10*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_STDOUT", false)

	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		HTTPAddr:            strings.TrimSpace(v.GetString("HTTP_ADDR")),
		DatabaseDSN:         normalizeConnectionString(strings.TrimSpace(v.GetString("DATABASE_DSN"))),
		MigrationsDir:       strings.TrimSpace(v.GetString("MIGRATIONS_DIR")),
		StorageDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		RedisAddr:           strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		LockBackend:         strings.ToLower(strings.TrimSpace(v.GetString("LOCK_BACKEND"))),
		LockKeyPrefix:       v.GetString("LOCK_KEY_PREFIX"),
		LockWaitTimeout:     v.GetDuration("LOCK_WAIT_TIMEOUT"),
		LockLeaseTime:       v.GetDuration("LOCK_LEASE_TIME"),
		LockRetryInterval:   v.GetDuration("LOCK_RETRY_INTERVAL"),
		TransactionCacheTTL: v.GetDuration("TRANSACTION_CACHE_TTL"),
		LogLevel:            strings.TrimSpace(v.GetString("LOG_LEVEL")),
		TracingStdout:       v.GetBool("TRACING_STDOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []string

	if c.HTTPAddr == "" {
		errs = append(errs, "HTTP_ADDR is required")
	}
	if c.StorageDriver != StorageDriverPostgres && c.StorageDriver != StorageDriverMemory {
		errs = append(errs, "STORAGE_DRIVER must be one of postgres, memory")
	}
	if c.LockBackend != LockBackendRedis && c.LockBackend != LockBackendMemory {
		errs = append(errs, "LOCK_BACKEND must be one of redis, memory")
	}
	if c.LockBackend == LockBackendRedis && c.RedisAddr == "" {
		errs = append(errs, "REDIS_ADDR is required for the redis lock backend")
	}
	if c.LockWaitTimeout <= 0 {
		errs = append(errs, "LOCK_WAIT_TIMEOUT must be positive")
	}
	if c.LockLeaseTime <= 0 {
		errs = append(errs, "LOCK_LEASE_TIME must be positive")
	}
	if c.LockRetryInterval <= 0 || c.LockRetryInterval >= 100*time.Millisecond {
		errs = append(errs, "LOCK_RETRY_INTERVAL must be between 0 and 100ms")
	}
	if c.TransactionCacheTTL < 0 {
		errs = append(errs, "TRANSACTION_CACHE_TTL cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
