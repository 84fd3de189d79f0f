package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Values come from environment variables with sensible defaults.
//
// Environment Variables:
// Translator Configuration:
// - TRANSLATOR_API_KEY: API key for the translation provider (required)
// - TRANSLATOR_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - TRANSLATOR_MODEL: Model name to use (default: gpt-4o)
// - TRANSLATOR_TIMEOUT: Request timeout in seconds (default: 60)
// - TARGET_LANGUAGE: BCP 47 target language tag (default: ja)
//
// Pipeline Configuration:
// - CHUNK_SIZE: Subtitle entries per translation batch (default: 25)
//
// Worker Configuration:
// - WORKER_POLL_INTERVAL: Idle poll interval in seconds (default: 5)
// - JOB_RETENTION_DAYS: Days to keep completed/failed jobs (default: 30)
// - RETENTION_CRON: Schedule for the retention sweep (default: daily at midnight)
//
// Storage / HTTP:
// - DB_PATH: SQLite database file (default: data/yomisub.db)
// - HTTP_ADDR: Listen address for the API server (default: :8080)
// - FETCH_BASE_URL: Base URL of the transcript endpoint (default: https://www.youtube.com)
// - SOURCE_LANGUAGE: Transcript language requested from the provider (default: en)
// - LOG_LEVEL: DEBUG, INFO, WARN, ERROR (default: INFO)
type Config struct {
	Translator TranslatorConfig
	Pipeline   PipelineConfig
	Worker     WorkerConfig
	Fetch      FetchConfig

	DBPath   string
	HTTPAddr string
	LogLevel string
}

// TranslatorConfig holds the configuration for the translation provider client.
type TranslatorConfig struct {
	APIKey         string
	APIURL         string
	Model          string
	Timeout        int
	TargetLanguage language.Tag
}

// PipelineConfig holds the translation pipeline configuration.
type PipelineConfig struct {
	ChunkSize int
}

// WorkerConfig holds the worker loop configuration.
type WorkerConfig struct {
	PollInterval  time.Duration
	RetentionDays int
	RetentionCron string
}

// FetchConfig holds the transcript provider configuration.
type FetchConfig struct {
	BaseURL        string
	SourceLanguage string
}

// Option is a function type for configuring Config
type Option func(*Config)

// New creates a Config from environment variables and options.
func New(opts ...Option) (*Config, error) {
	target, err := language.Parse(getEnvString("TARGET_LANGUAGE", "ja"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_LANGUAGE: %w", err)
	}

	config := &Config{
		Translator: TranslatorConfig{
			APIKey:         getEnvString("TRANSLATOR_API_KEY", ""),
			APIURL:         getEnvString("TRANSLATOR_API_URL", "https://api.openai.com/v1"),
			Model:          getEnvString("TRANSLATOR_MODEL", "gpt-4o"),
			Timeout:        getEnvInt("TRANSLATOR_TIMEOUT", 60),
			TargetLanguage: target,
		},
		Pipeline: PipelineConfig{
			ChunkSize: getEnvInt("CHUNK_SIZE", 25),
		},
		Worker: WorkerConfig{
			PollInterval:  time.Duration(getEnvInt("WORKER_POLL_INTERVAL", 5)) * time.Second,
			RetentionDays: getEnvInt("JOB_RETENTION_DAYS", 30),
			RetentionCron: getEnvString("RETENTION_CRON", "0 0 * * *"),
		},
		Fetch: FetchConfig{
			BaseURL:        getEnvString("FETCH_BASE_URL", "https://www.youtube.com"),
			SourceLanguage: getEnvString("SOURCE_LANGUAGE", "en"),
		},
		DBPath:   getEnvString("DB_PATH", "data/yomisub.db"),
		HTTPAddr: getEnvString("HTTP_ADDR", ":8080"),
		LogLevel: getEnvString("LOG_LEVEL", "INFO"),
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Translator.APIKey == "" {
		return fmt.Errorf("TRANSLATOR_API_KEY is required")
	}
	if c.Pipeline.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.Pipeline.ChunkSize)
	}
	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("WORKER_POLL_INTERVAL must be positive")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
