package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: memory or sheets
	DataBackend string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetRange    string
	GoogleAnalysesSheet string

	// Language-model proxy
	LLMAPIURL     string
	LLMAPIKey     string
	LLMAPIVersion string

	// Summary shaping
	TopN            int
	ForecastWindow  int
	SummaryCacheTTL time.Duration

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", "memory"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:    getEnv("GOOGLE_SHEET_RANGE", "Hoja 1"),
		GoogleAnalysesSheet: getEnv("GOOGLE_ANALYSES_SHEET_NAME", "Analyses"),

		LLMAPIURL:     getEnv("LLM_API_URL", "https://api.anthropic.com/v1/messages"),
		LLMAPIKey:     getEnv("LLM_API_KEY", os.Getenv("ANTHROPIC_API_KEY")),
		LLMAPIVersion: getEnv("LLM_API_VERSION", "2023-06-01"),

		TopN:            getEnvInt("SUMMARY_TOP_N", 5),
		ForecastWindow:  getEnvInt("FORECAST_WINDOW", 4),
		SummaryCacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", 5*time.Minute),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/cashflow.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cashflow"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_analyses"),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 30*time.Second),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory", "sheets":
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [memory sheets]", c.DataBackend))
	}

	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetRange == "" {
			errors = append(errors, "Google sheet range cannot be empty when using sheets backend")
		}
	}

	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.LLMAPIURL != "" {
		if u, err := url.Parse(c.LLMAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid LLM API URL '%s'", c.LLMAPIURL))
		}
	}

	if c.TopN < 1 || c.TopN > 50 {
		errors = append(errors, fmt.Sprintf("invalid top N %d: must be between 1 and 50", c.TopN))
	}
	if c.ForecastWindow < 1 || c.ForecastWindow > 52 {
		errors = append(errors, fmt.Sprintf("invalid forecast window %d: must be between 1 and 52 periods", c.ForecastWindow))
	}
	if c.SummaryCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must not be negative", c.SummaryCacheTTL))
	}

	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}
	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
