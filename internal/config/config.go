package config

import (
	"fmt"
	"os"
	"time"
)

// Storage drivers understood by repository.Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds application configuration
type Config struct {
	Port            string
	StoreDriver     string
	DBConn          string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	LogLevel        string
	LogFile         string
	ReportSchedule  string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SenderEmail     string
	ReportRecipient string
	ShutdownTimeout time.Duration
}

// NewConfig loads configuration from environment variables. The result is not
// validated so command-line overrides can be applied first.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		StoreDriver:     getEnv("STORE_DRIVER", DriverMemory),
		DBConn:          getEnv("DB_CONN", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "exercise.db"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DB", "exercise_tracker"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		LogFile:         getEnv("LOG_FILE", ""),
		ReportSchedule:  getEnv("REPORT_SCHEDULE", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "tracker@localhost"),
		ReportRecipient: getEnv("REPORT_RECIPIENT", ""),
	}

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

// Validate checks that the settings required by the selected driver are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo driver")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DB is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ReportRecipient != "" && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when REPORT_RECIPIENT is set")
	}
	return nil
}

// MailEnabled reports whether activity reports should be emailed.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ReportRecipient != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
