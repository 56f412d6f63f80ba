package config

import (
	"encoding/json"
	"os"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string        `json:"serverAddress"`
	DatabasePath  string        `json:"databasePath"`
	DatabaseURL   string        `json:"databaseUrl"`
	Security      Security      `json:"security"`
	Collaboration Collaboration `json:"collaboration"`
}

// Security configuration
type Security struct {
	APIKey       string `json:"apiKey"`
	APIKeyHeader string `json:"apiKeyHeader"`
}

// Collaboration tunes core behavior
type Collaboration struct {
	// LockDocumentsOnSessionClose rejects edits while no session is active.
	// Off by default: closing a session leaves its documents editable.
	LockDocumentsOnSessionClose bool `json:"lockDocumentsOnSessionClose"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5600",
		DatabasePath:  "scribesync.db",
		Security: Security{
			APIKey:       "CHANGE_THIS_TO_A_SECURE_API_KEY_AT_LEAST_32_CHARS",
			APIKeyHeader: "X-API-Key",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		cfg.Security.APIKey = apiKey
	}
	if lock := os.Getenv("LOCK_DOCUMENTS_ON_SESSION_CLOSE"); lock == "true" || lock == "1" {
		cfg.Collaboration.LockDocumentsOnSessionClose = true
	}

	return cfg, nil
}
