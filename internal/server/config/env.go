package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// parseEnv overlays deployment settings commonly injected by the platform.
func parseEnv(config *Config, lookup LookupFunc) error {
	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		config.HTTPAddr = v
	}
	if v, ok := lookup("DATABASE_DRIVER"); ok && v != "" {
		config.DatabaseDriver = v
	}
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
		// a bare postgres URL implies the pgx driver
		if d, _ := lookup("DATABASE_DRIVER"); d == "" &&
			(strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://")) {
			config.DatabaseDriver = DriverPostgres
		}
	}
	if v, ok := lookup("SECRET_KEY"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		config.RedisAddr = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		config.KafkaBrokers = splitList(v)
	}
	if v, ok := lookup("SEED_DEMO_DATA"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_DEMO_DATA: %w", err)
		}
		config.SeedDemoData = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
