package config

import (
	"os"
	"strconv"
	"time"

	"prescription-reader/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort        string
	StagingPath       string
	MaxFileSize       int64
	LogLevel          string
	ExtractionAPIURL  string
	ExtractionTimeout time.Duration
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:        getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		StagingPath:       getEnvOrDefault("STAGING_PATH", "./staging"),
		MaxFileSize:       getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		ExtractionAPIURL:  getEnvOrDefault("EXTRACTION_API_URL", "http://localhost:8000"),
		ExtractionTimeout: time.Duration(getEnvInt64OrDefault("EXTRACTION_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetStagingPath returns the directory used for staged upload copies
func (c *AppConfig) GetStagingPath() string {
	return c.StagingPath
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetExtractionAPIURL returns the base URL of the extraction backend
func (c *AppConfig) GetExtractionAPIURL() string {
	return c.ExtractionAPIURL
}

// GetExtractionTimeout returns the per-request timeout for backend calls
func (c *AppConfig) GetExtractionTimeout() time.Duration {
	return c.ExtractionTimeout
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
