package config

import "fmt"

// Agent holds configuration for the capture agent binary.
type Agent struct {
	// CDP connection settings
	CDPAddress string
	CDPPort    int

	// Tab matching and behavior
	TabURLFilter   string
	ReloadOnAttach bool

	// Control API
	BindAddress string
	BindPort    int

	// Upload targets
	BackendURL string
	WebhookURL string

	// CSV export
	ExportDir  string
	FilePrefix string

	// Logging
	LogLevel string
	LogFile  string
}

// LoadAgent reads agent configuration from environment variables and an
// optional .env file. Every setting has a default; nothing is required.
func LoadAgent() (*Agent, error) {
	loadDotenv()

	cfg := &Agent{
		CDPAddress:     getEnvOrDefault("CHROMIUM_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:        getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9222),
		TabURLFilter:   getEnvOrDefault("AGENT_TAB_URL_FILTER", ""),
		ReloadOnAttach: getEnvBoolOrDefault("AGENT_RELOAD_ON_ATTACH", false),
		BindAddress:    getEnvOrDefault("AGENT_BIND_ADDRESS", "127.0.0.1"),
		BindPort:       getEnvIntOrDefault("AGENT_BIND_PORT", 8710),
		BackendURL:     getEnvOrDefault("AGENT_BACKEND_URL", ""),
		WebhookURL:     getEnvOrDefault("AGENT_SHEET_WEBHOOK_URL", ""),
		ExportDir:      getEnvOrDefault("AGENT_EXPORT_DIR", "./exports"),
		FilePrefix:     getEnvOrDefault("AGENT_FILE_PREFIX", "network_images"),
		LogLevel:       getEnvOrDefault("AGENT_LOG_LEVEL", "info"),
		LogFile:        getEnvOrDefault("AGENT_LOG_FILE", "logs/agent.log"),
	}

	return cfg, nil
}

// GetCDPURL returns the full CDP HTTP endpoint used by the chromedp remote
// allocator.
func (c *Agent) GetCDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}
