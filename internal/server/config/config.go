// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/common"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Supported session backends.
const (
	SessionStoreSQL   = "sql"
	SessionStoreRedis = "redis"
)

// Config holds runtime settings for the audiovote server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (modernc) for development, "pgx" for Postgres.
//   - SecretKey: HMAC secret for signing session cookies (HS256).
//   - SessionTTL: sliding session lifetime; SessionCleanupInterval: how often
//     expired sessions are purged.
//   - SessionStore: "sql" or "redis"; Redis* configure the latter.
//   - KafkaBrokers / KafkaTopic: vote event stream, disabled when no brokers.
//   - S3*: object storage used to presign cover images, disabled when S3Bucket is empty.
type Config struct {
	HTTPAddr               string
	DatabaseDriver         string
	DatabaseDSN            string
	SecretKey              string
	SessionTTL             time.Duration
	SessionStore           string
	SessionCleanupInterval time.Duration
	SecureCookie           bool
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	KafkaBrokers           []string
	KafkaTopic             string
	S3RootUser             string
	S3RootPassword         string
	S3Bucket               string
	S3Region               string
	S3BaseEndpoint         string
	SeedDemoData           bool
	LogLevel               string
	ShutdownTimeout        time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:audiobooks.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	c.SecretKey = "supersecretkey"
	c.SessionTTL = common.DefaultSessionTTL
	c.SessionStore = SessionStoreSQL
	c.SessionCleanupInterval = time.Hour
	c.SecureCookie = false
	c.RedisAddr = ""
	c.RedisPassword = ""
	c.RedisDB = 0
	c.KafkaBrokers = nil
	c.KafkaTopic = "audiobook-votes"
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.SeedDemoData = false
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// Validate reports the first setting that makes the server unable to start.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is empty")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.SessionCleanupInterval <= 0 {
		return errors.New("session cleanup interval must be positive")
	}
	switch c.SessionStore {
	case SessionStoreSQL:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			return errors.New("redis session store requires a redis address")
		}
	default:
		return fmt.Errorf("unsupported session store %q", c.SessionStore)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
