package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Telegram Bot configuration
	BotToken string

	// HTTP liveness endpoint port
	Port string

	// Directory for the BadgerDB offset store
	DataDir string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{}

	// Required configurations
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required")
	}
	cfg.BotToken = botToken

	// Optional configurations with defaults
	cfg.Port = getEnvWithDefault("PORT", "8080")
	cfg.DataDir = getEnvWithDefault("DATA_DIR", "./data")

	// Log configuration with sensitive data redacted
	logCfg := *cfg
	if len(logCfg.BotToken) > 8 {
		logCfg.BotToken = logCfg.BotToken[:8] + "...REDACTED..."
	}
	log.Printf("Configuration loaded: %+v", logCfg)
	return cfg, nil
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
