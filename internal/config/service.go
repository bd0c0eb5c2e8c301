package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Service holds configuration for the ingest backend binary.
type Service struct {
	// HTTP server
	BindAddress    string
	BindPort       int
	AllowedOrigins []string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration
	Username  string
	Password  string

	// Object storage
	BucketDir string

	// Append job trigger
	TriggerMode string // "nats" or "local"
	NATSURL     string
	NATSToken   string
	NATSSubject string

	// Local trigger mode runs the append job in-process against this
	// spreadsheet webhook.
	SheetWebhookURL string
	SheetRange      string

	// Logging
	LogLevel string
	LogFile  string
}

// LoadService reads ingest backend configuration. SERVICE_JWT_SECRET is
// required; everything else has a default.
func LoadService() (*Service, error) {
	loadDotenv()

	secret := os.Getenv("SERVICE_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SERVICE_JWT_SECRET is required")
	}

	cfg := &Service{
		BindAddress:     getEnvOrDefault("SERVICE_BIND_ADDRESS", "0.0.0.0"),
		BindPort:        getEnvIntOrDefault("SERVICE_BIND_PORT", 8080),
		AllowedOrigins:  splitCSV(getEnvOrDefault("SERVICE_ALLOWED_ORIGINS", "*")),
		JWTSecret:       secret,
		TokenTTL:        getEnvDurationOrDefault("SERVICE_TOKEN_TTL", time.Hour),
		Username:        getEnvOrDefault("SERVICE_USERNAME", "demo"),
		Password:        getEnvOrDefault("SERVICE_PASSWORD", "net2sheet2025"),
		BucketDir:       getEnvOrDefault("SERVICE_BUCKET_DIR", "./bucket"),
		TriggerMode:     getEnvOrDefault("SERVICE_TRIGGER_MODE", "local"),
		NATSURL:         getEnvOrDefault("SERVICE_NATS_URL", "nats://127.0.0.1:4222"),
		NATSToken:       getEnvOrDefault("SERVICE_NATS_TOKEN", ""),
		NATSSubject:     getEnvOrDefault("SERVICE_NATS_SUBJECT", "jobs.append"),
		SheetWebhookURL: getEnvOrDefault("SERVICE_SHEET_WEBHOOK_URL", ""),
		SheetRange:      getEnvOrDefault("SERVICE_SHEET_RANGE", "Sheet1!A1"),
		LogLevel:        getEnvOrDefault("SERVICE_LOG_LEVEL", "info"),
		LogFile:         getEnvOrDefault("SERVICE_LOG_FILE", "logs/service.log"),
	}

	if cfg.TriggerMode != "nats" && cfg.TriggerMode != "local" {
		return nil, fmt.Errorf("SERVICE_TRIGGER_MODE must be \"nats\" or \"local\", got %q", cfg.TriggerMode)
	}

	return cfg, nil
}

// ExpiresIn renders the token TTL the way login responses report it, in
// whole seconds.
func (c *Service) ExpiresIn() string {
	return fmt.Sprintf("%ds", int(c.TokenTTL.Seconds()))
}

func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
