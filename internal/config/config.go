package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Source   SourceConfig
	Oracle   OracleConfig
	Pipeline PipelineConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// SourceConfig points at the external client record endpoint.
type SourceConfig struct {
	URL            string
	TimeoutSeconds int
}

// OracleConfig holds text-analysis API settings.
type OracleConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

// PipelineConfig tunes the enrichment pipeline.
type PipelineConfig struct {
	EnrichmentWorkers   int
	SentimentWordBudget int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	temperature, err := strconv.ParseFloat(getEnv("ORACLE_TEMPERATURE", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-prioritizer"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Source: SourceConfig{
			URL:            getEnv("SOURCE_URL", "https://globalnoticeboard.com/admin/get_client_data_api.php"),
			TimeoutSeconds: getEnvAsInt("SOURCE_TIMEOUT_SECONDS", 15),
		},
		Oracle: OracleConfig{
			APIKey:         os.Getenv("ORACLE_API_KEY"),
			BaseURL:        getEnv("ORACLE_BASE_URL", "https://api.openai.com/v1"),
			Model:          getEnv("ORACLE_MODEL", "gpt-4o"),
			Temperature:    temperature,
			MaxTokens:      getEnvAsInt("ORACLE_MAX_TOKENS", 0),
			TimeoutSeconds: getEnvAsInt("ORACLE_TIMEOUT_SECONDS", 30),
		},
		Pipeline: PipelineConfig{
			EnrichmentWorkers:   getEnvAsInt("PIPELINE_ENRICHMENT_WORKERS", 8),
			SentimentWordBudget: getEnvAsInt("PIPELINE_SENTIMENT_WORD_BUDGET", 3000),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the source call timeout duration.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Timeout returns the oracle call timeout duration.
func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
