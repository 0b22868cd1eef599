package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-c", "ignored.json",
				"-a", "127.0.0.1:9090", "-driver", "pgx", "-d", "db", "-s", "secret",
				"-session-ttl", "1h", "-session-store", "redis", "-cleanup", "5m",
				"-secure-cookie=true", "-redis", "r:6379", "-kafka", "k1:9092, k2:9092",
				"-kafka-topic", "t", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-seed=true", "-log-level", "debug",
			},
			expected: &Config{
				HTTPAddr:               "127.0.0.1:9090",
				DatabaseDriver:         "pgx",
				DatabaseDSN:            "db",
				SecretKey:              "secret",
				SessionTTL:             time.Hour,
				SessionStore:           "redis",
				SessionCleanupInterval: 5 * time.Minute,
				SecureCookie:           true,
				RedisAddr:              "r:6379",
				KafkaBrokers:           []string{"k1:9092", "k2:9092"},
				KafkaTopic:             "t",
				S3Bucket:               "bucket",
				S3Region:               "us-west-1",
				S3BaseEndpoint:         "http://endpoint",
				SeedDemoData:           true,
				LogLevel:               "debug",
			},
		},
		{
			name:      "bad duration",
			args:      []string{"-session-ttl", "forever"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
