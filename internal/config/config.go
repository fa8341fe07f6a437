package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is loaded once at startup and passed down; nothing reads the
// environment after Load returns.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Voice-agent conversation API
	ElevenLabsAPIKey  string `envconfig:"ELEVENLABS_API_KEY"`
	ElevenLabsBaseURL string `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io/v1"`

	// Optional spreadsheet-backed conversation source used when no API
	// key is configured.
	DatasetPath string `envconfig:"DATASET_PATH"`

	// LLM gateway (OpenAI-style chat completions). Unset URL means the
	// rule-based classifier runs alone.
	LLMGatewayURL string `envconfig:"LLM_GATEWAY_URL"`
	LLMAPIKey     string `envconfig:"LLM_API_KEY"`
	LLMModel      string `envconfig:"LLM_MODEL"`
	LLMTimeoutSec int    `envconfig:"LLM_TIMEOUT_SEC" default:"12" validate:"gte=1,lte=120"`

	// Batch classification
	MaxConcurrency int `envconfig:"MAX_CONCURRENCY" default:"4" validate:"gte=1,lte=64"`
	FetchLimit     int `envconfig:"FETCH_LIMIT" default:"50" validate:"gte=1,lte=500"`
}

// Load reads .env (if present), the environment, and validates the
// result.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
