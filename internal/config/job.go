package config

import "fmt"

// Job holds configuration for the append job binary.
type Job struct {
	// Object storage to read uploads from
	BucketDir string

	// Spreadsheet webhook target
	SheetWebhookURL string
	SheetRange      string

	// Run mode: "once" runs a single pass and exits, "worker" subscribes
	// to the trigger subject and runs on each message.
	Mode        string
	NATSURL     string
	NATSToken   string
	NATSSubject string

	// Logging
	LogLevel string
	LogFile  string
}

// LoadJob reads append job configuration. JOB_SHEET_WEBHOOK_URL is
// required; everything else has a default.
func LoadJob() (*Job, error) {
	loadDotenv()

	cfg := &Job{
		BucketDir:       getEnvOrDefault("JOB_BUCKET_DIR", "./bucket"),
		SheetWebhookURL: getEnvOrDefault("JOB_SHEET_WEBHOOK_URL", ""),
		SheetRange:      getEnvOrDefault("JOB_SHEET_RANGE", "Sheet1!A1"),
		Mode:            getEnvOrDefault("JOB_MODE", "once"),
		NATSURL:         getEnvOrDefault("JOB_NATS_URL", "nats://127.0.0.1:4222"),
		NATSToken:       getEnvOrDefault("JOB_NATS_TOKEN", ""),
		NATSSubject:     getEnvOrDefault("JOB_NATS_SUBJECT", "jobs.append"),
		LogLevel:        getEnvOrDefault("JOB_LOG_LEVEL", "info"),
		LogFile:         getEnvOrDefault("JOB_LOG_FILE", "logs/appendjob.log"),
	}

	if cfg.SheetWebhookURL == "" {
		return nil, fmt.Errorf("JOB_SHEET_WEBHOOK_URL is required")
	}
	if cfg.Mode != "once" && cfg.Mode != "worker" {
		return nil, fmt.Errorf("JOB_MODE must be \"once\" or \"worker\", got %q", cfg.Mode)
	}

	return cfg, nil
}
