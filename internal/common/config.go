package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Audit  AuditConfig
	Upload UploadConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LLMConfig holds chat-completion service configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// AuditConfig holds audit-trail configuration
type AuditConfig struct {
	DBPath string
}

// UploadConfig holds file-upload configuration
type UploadConfig struct {
	Dir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":5001"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
			Model:       getEnv("MISTRAL_MODEL", "mistral-large-latest"),
			APIKey:      getEnv("MISTRAL_API_KEY", ""),
			Temperature: getEnvAsFloat32("MISTRAL_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("MISTRAL_TIMEOUT", 45*time.Second),
		},
		Audit: AuditConfig{
			DBPath: getEnv("AUDIT_DB_PATH", "./finguard-audit.db"),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "./uploads"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "MISTRAL_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
