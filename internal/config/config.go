package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Provider names accepted by the PROVIDER setting.
const (
	ProviderLocal       = "local"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Inference provider settings
	Provider string `json:"provider"` // "local", "huggingface" or "openai"

	HuggingFaceAPIKey  string `json:"-"` // Don't expose in JSON
	HuggingFaceBaseURL string `json:"huggingface_base_url"`
	SummarizerModel    string `json:"summarizer_model"`
	QAModel            string `json:"qa_model"`

	OpenAIAPIKey string `json:"-"` // Don't expose in JSON
	OpenAIModel  string `json:"openai_model"`

	// Cache settings
	CacheType     string `json:"cache_type"`     // "memory" or "cloud-storage"
	CacheDuration int    `json:"cache_duration"` // in hours
	CacheBucket   string `json:"cache_bucket"`
	SweepSchedule string `json:"sweep_schedule"` // cron expression for expired entry cleanup

	// Admin settings
	AdminToken string `json:"-"` // Don't expose in JSON; empty disables cache admin endpoints

	// Input settings
	MaxUploadMB   int `json:"max_upload_mb"`
	MinInputChars int `json:"min_input_chars"`
	FetchTimeout  int `json:"fetch_timeout_seconds"`

	// Deployment metadata consumed by the UI page
	UITitle string `json:"ui_title"`
	UITheme string `json:"ui_theme"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Provider:           getEnvOrDefault("PROVIDER", ProviderLocal),
		HuggingFaceAPIKey:  getEnvOrDefault("HUGGINGFACE_API_KEY", ""),
		HuggingFaceBaseURL: getEnvOrDefault("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co"),
		SummarizerModel:    getEnvOrDefault("SUMMARIZER_MODEL", "facebook/bart-large-cnn"),
		QAModel:            getEnvOrDefault("QA_MODEL", "deepset/bert-base-cased-squad2"),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		CacheType:          getEnvOrDefault("CACHE_TYPE", "memory"),
		CacheDuration:      getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		CacheBucket:        getEnvOrDefault("CACHE_BUCKET", "textdigest-cache"),
		SweepSchedule:      getEnvOrDefault("SWEEP_SCHEDULE", "@hourly"),
		AdminToken:         getEnvOrDefault("ADMIN_TOKEN", ""),
		MaxUploadMB:        getEnvOrDefaultInt("MAX_UPLOAD_MB", 10),
		MinInputChars:      getEnvOrDefaultInt("MIN_INPUT_CHARS", 40),
		FetchTimeout:       getEnvOrDefaultInt("FETCH_TIMEOUT_SECONDS", 20),
		UITitle:            getEnvOrDefault("UI_TITLE", "Text Summarizer & Q&A"),
		UITheme:            getEnvOrDefault("UI_THEME", "#4f46e5"),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	switch c.Provider {
	case ProviderLocal:
	case ProviderHuggingFace:
		if c.HuggingFaceAPIKey == "" {
			return &ConfigError{Field: "HUGGINGFACE_API_KEY", Message: "API key is required for the huggingface provider"}
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "API key is required for the openai provider"}
		}
	default:
		return &ConfigError{Field: "PROVIDER", Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	switch c.CacheType {
	case "memory", "cloud-storage":
	default:
		return &ConfigError{Field: "CACHE_TYPE", Message: fmt.Sprintf("unknown cache type %q", c.CacheType)}
	}

	if c.MaxUploadMB <= 0 {
		return &ConfigError{Field: "MAX_UPLOAD_MB", Message: "must be positive"}
	}
	if c.MinInputChars < 0 {
		return &ConfigError{Field: "MIN_INPUT_CHARS", Message: "must not be negative"}
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
