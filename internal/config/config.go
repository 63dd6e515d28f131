package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // report time zones must resolve on hosts without zoneinfo

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/vendinha-dev/vendinha/internal/model"
)

// FileName is the config file at the root of a workspace.
const FileName = "vendinha.yaml"

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config represents the top-level vendinha.yaml configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Report  ReportConfig  `yaml:"report"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`

	envProblems []string
}

// StoreConfig identifies the shop.
type StoreConfig struct {
	Name string `yaml:"name"`
}

// LedgerConfig fixes the calendar year whose months debts are booked in.
type LedgerConfig struct {
	Year int `yaml:"year"`
}

// StorageConfig selects where the debt collection is persisted. Paths are
// relative to the workspace root.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// SessionConfig holds the shared secret of the login gate.
type SessionConfig struct {
	Secret         string `yaml:"secret"`
	RecoveryPhrase string `yaml:"recovery_phrase"`
}

// ReportConfig controls report rendering and export.
type ReportConfig struct {
	Title     string `yaml:"title"`
	Timezone  string `yaml:"timezone"`
	ExportDir string `yaml:"export_dir"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a vendinha.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(storeName string) *Config {
	return &Config{
		Store: StoreConfig{
			Name: storeName,
		},
		Ledger: LedgerConfig{
			Year: model.DefaultYear,
		},
		Storage: StorageConfig{
			Backend:    BackendCSV,
			CSVPath:    "data/debts.csv",
			SQLitePath: "data/vendinha.db",
		},
		Session: SessionConfig{
			Secret:         "admin123",
			RecoveryPhrase: "vendinha",
		},
		Report: ReportConfig{
			Title:     "RELATÓRIO DE DÍVIDAS - SISTEMA VENDINHA",
			Timezone:  "America/Sao_Paulo",
			ExportDir: "exports",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Vendinha",
			AuthorEmail: "caixa@vendinha.local",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv overrides selected settings from VENDINHA_* environment variables.
// Malformed values are reported by Validate.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("VENDINHA_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("VENDINHA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("VENDINHA_TIMEZONE"); v != "" {
		c.Report.Timezone = v
	}
	if v := os.Getenv("VENDINHA_LEDGER_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.envProblems = append(c.envProblems, fmt.Sprintf("invalid VENDINHA_LEDGER_YEAR %q: not a number", v))
		} else {
			c.Ledger.Year = year
		}
	}
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	problems := slices.Clone(c.envProblems)

	if c.Ledger.Year < 1900 || c.Ledger.Year > 9999 {
		problems = append(problems, fmt.Sprintf("invalid ledger year %d", c.Ledger.Year))
	}

	backends := []string{BackendCSV, BackendSQLite}
	if !slices.Contains(backends, c.Storage.Backend) {
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of %v", c.Storage.Backend, backends))
	}
	if c.Storage.Backend == BackendCSV && c.Storage.CSVPath == "" {
		problems = append(problems, "csv_path cannot be empty when using the csv backend")
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		problems = append(problems, "sqlite_path cannot be empty when using the sqlite backend")
	}

	if c.Session.Secret == "" {
		problems = append(problems, "session secret cannot be empty")
	}

	if c.Report.Timezone != "" {
		if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
			problems = append(problems, fmt.Sprintf("invalid report timezone %q: %v", c.Report.Timezone, err))
		}
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			problems = append(problems, fmt.Sprintf("invalid log level %q", c.Log.Level))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location returns the report time zone, or the local zone when unset or invalid.
func (c *Config) Location() *time.Location {
	if c.Report.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
