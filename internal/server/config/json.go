package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/audiovote/internal/flagx"
	"github.com/dmitrijs2005/audiovote/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "168h" and integer nanoseconds are accepted.
// Keys missing from the file keep their current value.
type JsonConfig struct {
	HTTPAddr               string         `json:"http_addr"`
	DatabaseDriver         string         `json:"database_driver"`
	DatabaseDSN            string         `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	SessionTTL             timex.Duration `json:"session_ttl"`
	SessionStore           string         `json:"session_store"`
	SessionCleanupInterval timex.Duration `json:"session_cleanup_interval"`
	SecureCookie           bool           `json:"secure_cookie"`
	RedisAddr              string         `json:"redis_addr"`
	RedisPassword          string         `json:"redis_password"`
	RedisDB                int            `json:"redis_db"`
	KafkaBrokers           []string       `json:"kafka_brokers"`
	KafkaTopic             string         `json:"kafka_topic"`
	S3RootUser             string         `json:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket"`
	S3Region               string         `json:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint"`
	SeedDemoData           bool           `json:"seed_demo_data"`
	LogLevel               string         `json:"log_level"`
	ShutdownTimeout        timex.Duration `json:"shutdown_timeout"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:               c.HTTPAddr,
		DatabaseDriver:         c.DatabaseDriver,
		DatabaseDSN:            c.DatabaseDSN,
		SecretKey:              c.SecretKey,
		SessionTTL:             timex.Duration{Duration: c.SessionTTL},
		SessionStore:           c.SessionStore,
		SessionCleanupInterval: timex.Duration{Duration: c.SessionCleanupInterval},
		SecureCookie:           c.SecureCookie,
		RedisAddr:              c.RedisAddr,
		RedisPassword:          c.RedisPassword,
		RedisDB:                c.RedisDB,
		KafkaBrokers:           c.KafkaBrokers,
		KafkaTopic:             c.KafkaTopic,
		S3RootUser:             c.S3RootUser,
		S3RootPassword:         c.S3RootPassword,
		S3Bucket:               c.S3Bucket,
		S3Region:               c.S3Region,
		S3BaseEndpoint:         c.S3BaseEndpoint,
		SeedDemoData:           c.SeedDemoData,
		LogLevel:               c.LogLevel,
		ShutdownTimeout:        timex.Duration{Duration: c.ShutdownTimeout},
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.HTTPAddr = j.HTTPAddr
	c.DatabaseDriver = j.DatabaseDriver
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.SessionTTL = j.SessionTTL.Duration
	c.SessionStore = j.SessionStore
	c.SessionCleanupInterval = j.SessionCleanupInterval.Duration
	c.SecureCookie = j.SecureCookie
	c.RedisAddr = j.RedisAddr
	c.RedisPassword = j.RedisPassword
	c.RedisDB = j.RedisDB
	c.KafkaBrokers = j.KafkaBrokers
	c.KafkaTopic = j.KafkaTopic
	c.S3RootUser = j.S3RootUser
	c.S3RootPassword = j.S3RootPassword
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.SeedDemoData = j.SeedDemoData
	c.LogLevel = j.LogLevel
	c.ShutdownTimeout = j.ShutdownTimeout.Duration
}

// parseJson overlays values from the file named by -c / -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)

	// nothing to load
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}
