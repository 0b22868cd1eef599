package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/audiovote/internal/flagx"
)

var serverFlags = []string{
	"-a", "-driver", "-d", "-s", "-session-ttl", "-session-store", "-cleanup",
	"-secure-cookie", "-redis", "-kafka", "-kafka-topic", "-b", "-g", "-e",
	"-seed", "-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string             HTTP bind address (e.g. ":5000")
//	-driver string        database driver: sqlite | pgx
//	-d string             database DSN
//	-s string             session signing secret
//	-session-ttl dur      sliding session lifetime (e.g. "168h")
//	-session-store string sql | redis
//	-cleanup dur          expired session cleanup interval
//	-secure-cookie        mark the session cookie Secure
//	-redis string         redis address
//	-kafka string         comma-separated kafka brokers
//	-kafka-topic string   vote event topic
//	-b / -g / -e string   S3 bucket, region, base endpoint
//	-seed                 seed demo data into an empty database
//	-log-level string     debug | info | warn | error
//
// Boolean flags must use the "-seed=true" form when followed by a value.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "session-ttl", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.SessionStore, "session-store", config.SessionStore, "session store (sql|redis)")
	fs.DurationVar(&config.SessionCleanupInterval, "cleanup", config.SessionCleanupInterval, "expired session cleanup interval")
	fs.BoolVar(&config.SecureCookie, "secure-cookie", config.SecureCookie, "set Secure on the session cookie")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	brokers := fs.String("kafka", strings.Join(config.KafkaBrokers, ","), "kafka brokers, comma separated")
	fs.StringVar(&config.KafkaTopic, "kafka-topic", config.KafkaTopic, "vote events topic")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.SeedDemoData, "seed", config.SeedDemoData, "seed demo data")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.KafkaBrokers = splitList(*brokers)
	return nil
}
