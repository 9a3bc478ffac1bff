// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Store backends selectable via SELFID_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// DIDCacheTTL bounds how long a DID-to-owner mapping may be served from the
// cache after the underlying record changed on another node.
var DIDCacheTTL = 5 * time.Minute

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	LogLevel      string
	Store         string
	PostgresDSN   string
	RedisURL      string
	KafkaBrokers  []string
	AuditTopic    string
	Admin         string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// FromEnv reads the SELFID_* environment. Every knob has a development
// default; production deployments override the signing key and the admin.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("SELFID_ADDR", ":8080"),
		LogLevel:      getenv("SELFID_LOG_LEVEL", "info"),
		Store:         getenv("SELFID_STORE", StoreMemory),
		PostgresDSN:   os.Getenv("SELFID_POSTGRES_DSN"),
		RedisURL:      os.Getenv("SELFID_REDIS_URL"),
		AuditTopic:    getenv("SELFID_AUDIT_TOPIC", "selfid.registry.audit"),
		Admin:         getenv("SELFID_ADMIN", "admin"),
		JWTSigningKey: getenv("SELFID_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getenv("SELFID_JWT_ISSUER", "selfid"),
		JWTAudience:   getenv("SELFID_JWT_AUDIENCE", "selfid-registry"),
	}
	if brokers := os.Getenv("SELFID_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
