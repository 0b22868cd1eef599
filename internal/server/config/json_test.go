package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":                "www.example:9000",
		"database_driver":          "pgx",
		"database_dsn":             "postgres://u:p@db/audiovote",
		"secret_key":               "my_secret_key",
		"session_ttl":              "48h",
		"session_store":            "redis",
		"session_cleanup_interval": 60000000000,
		"secure_cookie":            true,
		"redis_addr":               "redis:6379",
		"redis_db":                 2,
		"kafka_brokers":            []string{"k1:9092", "k2:9092"},
		"kafka_topic":              "votes",
		"s3_bucket":                "covers",
		"s3_region":                "eu-west-1",
		"s3_base_endpoint":         "http://minio:9000/",
		"seed_demo_data":           true,
		"log_level":                "warn",
		"shutdown_timeout":         "3s",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
		assert.Equal(t, "postgres://u:p@db/audiovote", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
		assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
		assert.Equal(t, time.Minute, cfg.SessionCleanupInterval)
		assert.True(t, cfg.SecureCookie)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "votes", cfg.KafkaTopic)
		assert.Equal(t, "covers", cfg.S3Bucket)
		assert.Equal(t, "eu-west-1", cfg.S3Region)
		assert.Equal(t, "http://minio:9000/", cfg.S3BaseEndpoint)
		assert.True(t, cfg.SeedDemoData)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("missing keys keep current values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"http_addr": ":1234"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		assert.Equal(t, ":1234", cfg.HTTPAddr)
		assert.Equal(t, "supersecretkey", cfg.SecretKey)
		assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234", SecretKey: "key", SessionTTL: 2 * time.Minute}
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.SessionTTL)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Error(t, parseJson(cfg, []string{"-config", bad}))
	})
}
