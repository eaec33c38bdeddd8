package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// ServerConfig contains the settings for the health endpoint and logging.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
}

// DatabaseConfig contains all database-related configuration settings.
// MaxOpenConns bounds the connection pool; the worker's concurrency
// ceiling exists to stay inside this budget.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// WorkerConfig contains the poll scheduler and retry executor settings.
type WorkerConfig struct {
	// PollInterval is how often the scheduler looks for eligible jobs.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,min=1s"`

	// Concurrency is the per-job-type ceiling on in-flight jobs. Each
	// poll cycle fetches up to twice this many jobs per type.
	Concurrency int `mapstructure:"concurrency" validate:"gte=1"`

	// MaxAttempts and RetryBaseDelay parameterize the retry executor
	// wrapping every persistence call.
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"gte=1"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=1"`
}

// StorageConfig contains the S3-compatible object store settings used to
// resolve r2:// source references. Optional: when no endpoint is set,
// object-storage extraction is disabled.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// Enabled reports whether object-storage extraction is configured.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}
