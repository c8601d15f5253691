// Package config loads service configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the casefile service needs at startup.
type Config struct {
	Addr        string
	MetricsAddr string

	// Path to the rule-selection configuration file.
	RulesPath string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	ShutdownTimeout time.Duration
}

// RedisConfig holds connection settings for the reference-data cache store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the reference-data store.
type PostgresConfig struct {
	URL string
}

// KafkaConfig holds broker and topic settings for outcome event publishing.
type KafkaConfig struct {
	Brokers        []string
	DefendantTopic string
	CaseTopic      string
	MaterialTopic  string
}

// FromEnv builds a Config from environment variables, applying defaults
// suitable for local development.
func FromEnv() Config {
	return Config{
		Addr:        envOr("CASEFILE_ADDR", ":8080"),
		MetricsAddr: envOr("CASEFILE_METRICS_ADDR", ":9090"),
		RulesPath:   envOr("CASEFILE_RULES_PATH", "configs/rules.yaml"),
		Redis: RedisConfig{
			URL:          os.Getenv("CASEFILE_REDIS_URL"),
			PoolSize:     envInt("CASEFILE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CASEFILE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("CASEFILE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CASEFILE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CASEFILE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("CASEFILE_POSTGRES_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:        envList("CASEFILE_KAFKA_BROKERS"),
			DefendantTopic: envOr("CASEFILE_KAFKA_DEFENDANT_TOPIC", "casefile.defendant.validation"),
			CaseTopic:      envOr("CASEFILE_KAFKA_CASE_TOPIC", "casefile.case.validation"),
			MaterialTopic:  envOr("CASEFILE_KAFKA_MATERIAL_TOPIC", "casefile.material"),
		},
		ShutdownTimeout: envDuration("CASEFILE_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
