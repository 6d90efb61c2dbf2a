// Package config handles loading application settings from the
// environment and from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/BartekS5/revetl/internal/etl"
	"github.com/BartekS5/revetl/pkg/database"
	"github.com/BartekS5/revetl/pkg/logger"
	"github.com/BartekS5/revetl/pkg/models"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for one pipeline run.
type Config struct {
	InputPath       string `yaml:"input"`
	Delimiter       string `yaml:"delimiter"`
	DBDriver        string `yaml:"db_driver"`
	DBDSN           string `yaml:"db_dsn"`
	Table           string `yaml:"table"`
	RowPolicy       string `yaml:"row_policy"`
	LogLevel        string `yaml:"log_level"`
	DryRun          bool   `yaml:"dry_run"`
	MongoConnString string `yaml:"mongo_connection_string"`
	MongoDatabase   string `yaml:"mongo_database"`
}

// LoadConfig loads settings from environment variables
// (which may be populated by the .env file in main.go).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		InputPath:       os.Getenv("REVETL_INPUT"),
		Delimiter:       getEnv("REVETL_DELIMITER", ","),
		DBDriver:        getEnv("REVETL_DB_DRIVER", database.DriverSQLite),
		DBDSN:           getEnv("REVETL_DB_DSN", "revenue.db"),
		Table:           getEnv("REVETL_TABLE", etl.DefaultTable),
		RowPolicy:       getEnv("REVETL_ROW_POLICY", models.PolicyLenient),
		LogLevel:        getEnv("REVETL_LOG_LEVEL", "info"),
		MongoConnString: os.Getenv("MONGO_CONNECTION_STRING"),
		MongoDatabase:   getEnv("REVETL_MONGO_DATABASE", "revetl"),
	}

	if v := os.Getenv("REVETL_DRY_RUN"); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: REVETL_DRY_RUN=%q is not a boolean", ErrInvalidConfig, v)
		}
		cfg.DryRun = dry
	}

	return cfg, nil
}

// Validate checks every setting a run depends on.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidConfig)
	}
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	return nil
}

// ValidateStore checks only the output store and logging settings.
func (c *Config) ValidateStore() error {
	if c.DBDSN == "" {
		return fmt.Errorf("%w: output location is required", ErrInvalidConfig)
	}
	if !isSupportedDriver(c.DBDriver) {
		return fmt.Errorf("%w: unsupported db driver %q (want one of %v)", ErrInvalidConfig, c.DBDriver, database.Drivers)
	}
	if !etl.ValidTableName(c.Table) {
		return fmt.Errorf("%w: invalid table name %q", ErrInvalidConfig, c.Table)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Policy resolves the configured row policy mode.
func (c *Config) Policy() (models.RowPolicy, error) {
	p, err := models.RowPolicyFromMode(c.RowPolicy)
	if err != nil {
		return models.RowPolicy{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// DelimiterRune returns the field separator. "\t" is accepted as a tab.
func (c *Config) DelimiterRune() (rune, error) {
	d := c.Delimiter
	if d == "" {
		return ',', nil
	}
	if d == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(d)
	if size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w: invalid delimiter %q", ErrInvalidConfig, d)
	}
	return r, nil
}

func isSupportedDriver(driver string) bool {
	for _, d := range database.Drivers {
		if d == driver {
			return true
		}
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
