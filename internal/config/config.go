package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Source backends for the tabular source client.
const (
	SourceGoogle = "google"
	SourceMemory = "memory"
)

// DefaultSheetRange spans the 22 columns the import contract expects,
// header row included.
const DefaultSheetRange = "Entradas!A:V"

// Config is the immutable process configuration, read once at startup and
// passed by reference. Validation is eager: the process refuses to serve
// requests when a required value is absent.
type Config struct {
	// HTTP server
	Port string

	// Ledger store
	SQLiteDBPath string

	// Upstream tabular source
	SourceBackend string
	SheetsAPIKey  string
	SpreadsheetID string
	SheetRange    string

	// AMQP (optional; import trigger/completion messaging)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Operational knobs
	LogLevel        string
	RateLimitPerMin int
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8085"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tesouraria.db"),

		SourceBackend: getEnv("SOURCE_BACKEND", SourceGoogle),
		SheetsAPIKey:  getEnv("SHEETS_API_KEY", ""),
		SpreadsheetID: getEnv("SPREADSHEET_ID", ""),
		SheetRange:    getEnv("SHEET_RANGE", DefaultSheetRange),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tesouraria"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "import_entradas"),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
}

// Validate checks the configuration and returns an aggregated error when any
// required value is missing or malformed.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.SourceBackend {
	case SourceGoogle:
		if c.SheetsAPIKey == "" {
			errs = append(errs, "SHEETS_API_KEY is required when using the google source backend")
		}
		if c.SpreadsheetID == "" {
			errs = append(errs, "SPREADSHEET_ID is required when using the google source backend")
		}
	case SourceMemory:
		// No upstream credentials needed.
	default:
		errs = append(errs, fmt.Sprintf("invalid source backend '%s': must be one of [%s %s]", c.SourceBackend, SourceGoogle, SourceMemory))
	}

	if c.SheetRange == "" {
		errs = append(errs, "sheet range cannot be empty")
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitPerMin < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMin))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
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
