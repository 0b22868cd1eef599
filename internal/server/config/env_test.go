package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func Test_parseEnv(t *testing.T) {
	t.Run("postgres url implies pgx", func(t *testing.T) {
		c := &Config{}
		c.LoadDefaults()
		require.NoError(t, parseEnv(c, mapLookup(map[string]string{
			"DATABASE_URL": "postgres://u:p@host/db",
			"SECRET_KEY":   "s3cr3t",
			"HTTP_ADDR":    ":8080",
		})))

		assert.Equal(t, DriverPostgres, c.DatabaseDriver)
		assert.Equal(t, "postgres://u:p@host/db", c.DatabaseDSN)
		assert.Equal(t, "s3cr3t", c.SecretKey)
		assert.Equal(t, ":8080", c.HTTPAddr)
	})

	t.Run("explicit driver wins", func(t *testing.T) {
		c := &Config{}
		c.LoadDefaults()
		require.NoError(t, parseEnv(c, mapLookup(map[string]string{
			"DATABASE_DRIVER": "sqlite",
			"DATABASE_URL":    "postgres://looks/like/pg",
		})))
		assert.Equal(t, DriverSQLite, c.DatabaseDriver)
	})

	t.Run("lists and bools", func(t *testing.T) {
		c := &Config{}
		c.LoadDefaults()
		require.NoError(t, parseEnv(c, mapLookup(map[string]string{
			"KAFKA_BROKERS":  "a:1,,b:2 ",
			"REDIS_ADDR":     "redis:6379",
			"SEED_DEMO_DATA": "true",
		})))
		assert.Equal(t, []string{"a:1", "b:2"}, c.KafkaBrokers)
		assert.Equal(t, "redis:6379", c.RedisAddr)
		assert.True(t, c.SeedDemoData)
	})

	t.Run("bad bool", func(t *testing.T) {
		c := &Config{}
		require.Error(t, parseEnv(c, mapLookup(map[string]string{"SEED_DEMO_DATA": "maybe"})))
	})

	t.Run("empty values ignored", func(t *testing.T) {
		c := &Config{HTTPAddr: ":1"}
		require.NoError(t, parseEnv(c, mapLookup(map[string]string{"HTTP_ADDR": ""})))
		assert.Equal(t, ":1", c.HTTPAddr)
	})
}
