package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr             string
	DatabaseURL      string
	JWTSigningKey    string
	// TokenSecretHash is the bcrypt hash clients must match to use the
	// token endpoint. Empty leaves the endpoint open for development.
	TokenSecretHash  string
	TokenTTL         time.Duration
	AuditRetention   time.Duration
	AuditBuffer      int
	CheckSections    bool
	RequiredSections []string
}

var (
	// TokenTTL bounds actor tokens issued by the dev endpoint.
	TokenTTL = 15 * time.Minute
	// AuditRetention is the default purge-by-age horizon.
	AuditRetention = 7 * 365 * 24 * time.Hour
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("NBMS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	tokenTTL := TokenTTL
	if raw := os.Getenv("NBMS_TOKEN_TTL"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			tokenTTL = duration
		}
	}

	retention := AuditRetention
	if raw := os.Getenv("NBMS_AUDIT_RETENTION"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			retention = duration
		}
	}

	buffer := 0
	if raw := os.Getenv("NBMS_AUDIT_BUFFER"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			buffer = n
		}
	}

	tokenSecretHash := os.Getenv("NBMS_TOKEN_SECRET_HASH")

	jwtSigningKey := os.Getenv("NBMS_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var required []string
	if raw := os.Getenv("NBMS_REQUIRED_SECTIONS"); raw != "" {
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				required = append(required, key)
			}
		}
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      os.Getenv("NBMS_DATABASE_URL"),
		JWTSigningKey:    jwtSigningKey,
		TokenSecretHash:  tokenSecretHash,
		TokenTTL:         tokenTTL,
		AuditRetention:   retention,
		AuditBuffer:      buffer,
		CheckSections:    os.Getenv("NBMS_CHECK_SECTIONS") == "true",
		RequiredSections: required,
	}
}
