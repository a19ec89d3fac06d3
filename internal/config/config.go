package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxRetries is the automatic retry budget after the first attempt.
	DefaultMaxRetries = 3

	// DefaultAttemptTimeout bounds a single settlement attempt.
	DefaultAttemptTimeout = 30 * time.Second

	// DefaultRetentionWindow is how long completed/cancelled records stay
	// in the registry after finishing.
	DefaultRetentionWindow = 60 * time.Second

	// FailedRetentionFactor scales the retention window for failed records
	// so a manual retry stays possible well after the failure.
	FailedRetentionFactor = 10

	// DefaultRetryDelays is the progressive delay table, one entry per
	// automatic retry. The last entry is reused if the table is shorter
	// than the retry budget.
	defaultRetryDelays = "2s,5s,10s"

	// DefaultMaxCommentLength follows the common LNURL commentAllowed ceiling.
	DefaultMaxCommentLength = 255
)

type Config struct {
	Port             string
	DatabasePath     string
	JaegerEndpoint   string
	MaxRetries       int
	RetryDelays      []time.Duration
	AttemptTimeout   time.Duration
	RetentionWindow  time.Duration
	FailedRetention  time.Duration
	MaxCommentLength int
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "payments.db"
	}

	cfg := &Config{
		Port:             port,
		DatabasePath:     dbPath,
		JaegerEndpoint:   os.Getenv("JAEGER_ENDPOINT"),
		MaxRetries:       envInt("MAX_RETRIES", DefaultMaxRetries),
		RetryDelays:      parseDelays(os.Getenv("RETRY_DELAYS")),
		AttemptTimeout:   envDuration("ATTEMPT_TIMEOUT", DefaultAttemptTimeout),
		RetentionWindow:  envDuration("RETENTION_WINDOW", DefaultRetentionWindow),
		MaxCommentLength: envInt("MAX_COMMENT_LENGTH", DefaultMaxCommentLength),
	}
	cfg.FailedRetention = cfg.RetentionWindow * FailedRetentionFactor
	return cfg
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// parseDelays parses a comma-separated duration list, e.g. "2s,5s,10s".
func parseDelays(raw string) []time.Duration {
	if raw == "" {
		raw = defaultRetryDelays
	}
	var delays []time.Duration
	for _, part := range strings.Split(raw, ",") {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil || d < 0 {
			continue
		}
		delays = append(delays, d)
	}
	if len(delays) == 0 {
		return parseDelays(defaultRetryDelays)
	}
	return delays
}
