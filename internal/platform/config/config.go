package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. It is loaded once in main and
// treated as immutable afterwards; in particular the credential signing key
// is never mutated at runtime.
type Config struct {
	Addr string

	// CredentialSigningKey signs issued exeat credentials. Missing key is a
	// fatal startup error outside dev mode.
	CredentialSigningKey string

	// IdentitySigningKey verifies caller tokens minted by the external
	// identity provider.
	IdentitySigningKey string

	DevMode bool

	// DatabaseURL selects the Postgres stores when set; empty falls back to
	// the in-memory stores.
	DatabaseURL string

	// RedisURL selects the Redis revocation list when set.
	RedisURL string

	// KafkaBrokers selects the Kafka notification publisher when non-empty.
	KafkaBrokers string
	KafkaTopic   string

	SweepInterval      time.Duration
	EarlyExitTolerance time.Duration

	// Flat penalty amounts in minor currency units, keyed by cause.
	OverdueAmount      int64
	UnauthorizedAmount int64
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:                 envOr("UNIPASS_ADDR", ":8080"),
		CredentialSigningKey: os.Getenv("CREDENTIAL_SIGNING_KEY"),
		IdentitySigningKey:   os.Getenv("IDENTITY_SIGNING_KEY"),
		DevMode:              os.Getenv("UNIPASS_DEV_MODE") == "true",
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		KafkaBrokers:         os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:           envOr("KAFKA_TOPIC", "unipass.events"),
		SweepInterval:        envDuration("OVERDUE_SWEEP_INTERVAL", time.Minute),
		EarlyExitTolerance:   envDuration("GATE_EARLY_EXIT_TOLERANCE", 0),
		OverdueAmount:        envInt64("PENALTY_OVERDUE_AMOUNT", 5000_00),
		UnauthorizedAmount:   envInt64("PENALTY_UNAUTHORIZED_AMOUNT", 10000_00),
	}

	if cfg.CredentialSigningKey == "" {
		if !cfg.DevMode {
			return Config{}, errors.New("CREDENTIAL_SIGNING_KEY is required")
		}
		cfg.CredentialSigningKey = "dev-credential-key-change-in-production"
	}
	if cfg.IdentitySigningKey == "" {
		if !cfg.DevMode {
			return Config{}, errors.New("IDENTITY_SIGNING_KEY is required")
		}
		cfg.IdentitySigningKey = "dev-identity-key-change-in-production"
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
