// Package config reads service configuration from the environment so main
// stays lean. Scoring weights and thresholds are not here: they live in the
// versioned policy file named by PolicyPath.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server   Server
	Auth     Auth
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Policy   PolicyConfig
	Dedupe   DedupeConfig
	Log      LogConfig

	// CollaboratorToken is sent as a bearer token to every collaborator.
	CollaboratorToken string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Auth configures service-to-service bearer tokens.
type Auth struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

// PostgresConfig enables the database-backed stores when URL is set.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig enables the Redis fingerprint and device stores when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the audit relay when Brokers is non-empty.
type KafkaConfig struct {
	Brokers           []string
	AuditTopic        string
	TopicPartitions   int32
	ReplicationFactor int16
	RelayInterval     time.Duration
}

// PolicyConfig points at the scoring policy file.
type PolicyConfig struct {
	Path  string
	Watch bool
}

// DedupeConfig bounds how long identity fingerprints and rejected devices
// are remembered.
type DedupeConfig struct {
	FingerprintTTL     time.Duration
	DeviceRejectionTTL time.Duration
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Collaborator configures one external signal producer.
type Collaborator struct {
	URL           string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// FromEnv builds the configuration from environment variables.
func FromEnv() (Config, error) {
	var errs []string
	env := envReader{errs: &errs}

	cfg := Config{
		Server: Server{
			Addr:            env.str("TRUSTGATE_ADDR", ":8080"),
			ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Auth: Auth{
			// Development default; deployments must override it.
			JWTSigningKey: env.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        env.str("JWT_ISSUER", "trustgate"),
			Audience:      env.str("JWT_AUDIENCE", "trustgate"),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: env.integer("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: env.integer("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     env.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: env.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           env.list("KAFKA_BROKERS"),
			AuditTopic:        env.str("KAFKA_AUDIT_TOPIC", "trustgate.audit"),
			TopicPartitions:   int32(env.integer("KAFKA_AUDIT_PARTITIONS", 6)),
			ReplicationFactor: int16(env.integer("KAFKA_AUDIT_REPLICATION", 1)),
			RelayInterval:     env.duration("AUDIT_RELAY_INTERVAL", time.Second),
		},
		Policy: PolicyConfig{
			Path:  env.str("POLICY_PATH", "config/policy.v1.yaml"),
			Watch: env.boolean("POLICY_WATCH", true),
		},
		Dedupe: DedupeConfig{
			FingerprintTTL:     env.duration("FINGERPRINT_TTL", 90*24*time.Hour),
			DeviceRejectionTTL: env.duration("DEVICE_REJECTION_TTL", 30*24*time.Hour),
		},
		Log: LogConfig{
			Level:  env.str("LOG_LEVEL", "info"),
			Format: env.str("LOG_FORMAT", "json"),
		},
		CollaboratorToken: os.Getenv("COLLABORATOR_TOKEN"),
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// CollaboratorFromEnv reads the settings of one collaborator. Variables are
// prefixed with the upper-cased source name, e.g. FACE_MATCH_URL and
// FACE_MATCH_TIMEOUT. An empty URL disables the collaborator.
func CollaboratorFromEnv(source string, defaults Collaborator) (Collaborator, error) {
	var errs []string
	env := envReader{errs: &errs}
	prefix := strings.ToUpper(source) + "_"

	c := Collaborator{
		URL:           env.str(prefix+"URL", defaults.URL),
		Timeout:       env.duration(prefix+"TIMEOUT", defaults.Timeout),
		RatePerSecond: env.float(prefix+"RATE", defaults.RatePerSecond),
		Burst:         env.integer(prefix+"BURST", defaults.Burst),
	}
	if len(errs) > 0 {
		return Collaborator{}, fmt.Errorf("invalid %s configuration: %s", source, strings.Join(errs, "; "))
	}
	return c, nil
}

type envReader struct {
	errs *[]string
}

func (e envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		*e.errs = append(*e.errs, key+" must be a non-negative duration")
		return fallback
	}
	return d
}

func (e envReader) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*e.errs = append(*e.errs, key+" must be a non-negative integer")
		return fallback
	}
	return n
}

func (e envReader) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		*e.errs = append(*e.errs, key+" must be a non-negative number")
		return fallback
	}
	return f
}

func (e envReader) boolean(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*e.errs = append(*e.errs, key+" must be a boolean")
		return fallback
	}
	return b
}
