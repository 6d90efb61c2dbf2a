package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BartekS5/revetl/pkg/models"
)

var envKeys = []string{
	"REVETL_INPUT", "REVETL_DELIMITER", "REVETL_DB_DRIVER", "REVETL_DB_DSN",
	"REVETL_TABLE", "REVETL_ROW_POLICY", "REVETL_LOG_LEVEL", "REVETL_DRY_RUN",
	"MONGO_CONNECTION_STRING", "REVETL_MONGO_DATABASE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(*testing.T, *Config)
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.DBDriver != "sqlite" {
					t.Errorf("expected DBDriver sqlite, got %s", cfg.DBDriver)
				}
				if cfg.DBDSN != "revenue.db" {
					t.Errorf("expected DBDSN revenue.db, got %s", cfg.DBDSN)
				}
				if cfg.Table != "revenue_by_country" {
					t.Errorf("expected table revenue_by_country, got %s", cfg.Table)
				}
				if cfg.RowPolicy != models.PolicyLenient {
					t.Errorf("expected lenient policy, got %s", cfg.RowPolicy)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected log level info, got %s", cfg.LogLevel)
				}
				if cfg.DryRun {
					t.Error("expected dry run to default to false")
				}
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"REVETL_INPUT":            "data/sales_raw.csv",
				"REVETL_DB_DRIVER":        "postgres",
				"REVETL_DB_DSN":           "postgres://u:p@db:5432/sales",
				"REVETL_TABLE":            "revenue_2024",
				"REVETL_ROW_POLICY":       "strict",
				"REVETL_LOG_LEVEL":        "debug",
				"REVETL_DRY_RUN":          "true",
				"MONGO_CONNECTION_STRING": "mongodb://mongo:27017",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.InputPath != "data/sales_raw.csv" {
					t.Errorf("expected input data/sales_raw.csv, got %s", cfg.InputPath)
				}
				if cfg.DBDriver != "postgres" {
					t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
				}
				if cfg.Table != "revenue_2024" {
					t.Errorf("expected table revenue_2024, got %s", cfg.Table)
				}
				if !cfg.DryRun {
					t.Error("expected dry run true")
				}
				if cfg.MongoConnString != "mongodb://mongo:27017" {
					t.Errorf("unexpected mongo connection string %s", cfg.MongoConnString)
				}
				if err := cfg.Validate(); err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadConfigBadDryRun(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVETL_DRY_RUN", "maybe")

	if _, err := LoadConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			InputPath: "sales.csv",
			Delimiter: ",",
			DBDriver:  "sqlite",
			DBDSN:     "out.db",
			Table:     "revenue_by_country",
			RowPolicy: "lenient",
			LogLevel:  "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input", func(c *Config) { c.InputPath = "" }},
		{"missing dsn", func(c *Config) { c.DBDSN = "" }},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }},
		{"bad table", func(c *Config) { c.Table = "revenue; DROP TABLE x" }},
		{"unknown policy", func(c *Config) { c.RowPolicy = "fuzzy" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"multi-char delimiter", func(c *Config) { c.Delimiter = ";;" }},
		{"quote delimiter", func(c *Config) { c.Delimiter = `"` }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("baseline config invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	tests := map[string]rune{"": ',', ",": ',', ";": ';', `\t`: '\t', "|": '|'}
	for in, want := range tests {
		got, err := (&Config{Delimiter: in}).DelimiterRune()
		if err != nil {
			t.Errorf("DelimiterRune(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("DelimiterRune(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revetl.yaml")
	content := "input: data/sales.csv\nrow_policy: strict\ntable: revenue_eu\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{DBDriver: "sqlite", DBDSN: "keep.db", RowPolicy: "lenient"}
	if err := cfg.MergeFile(path); err != nil {
		t.Fatalf("MergeFile failed: %v", err)
	}

	if cfg.InputPath != "data/sales.csv" || cfg.RowPolicy != "strict" || cfg.Table != "revenue_eu" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.DBDSN != "keep.db" {
		t.Errorf("expected DBDSN to survive merge, got %s", cfg.DBDSN)
	}
}

func TestMergeFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revetl.yaml")
	if err := os.WriteFile(path, []byte("inptu: typo.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := (&Config{}).MergeFile(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestMergeFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Table: "revenue_by_country"}
	if err := cfg.MergeFile(path); err != nil {
		t.Fatalf("MergeFile on empty file: %v", err)
	}
	if cfg.Table != "revenue_by_country" {
		t.Errorf("empty file changed config: %+v", cfg)
	}
}
