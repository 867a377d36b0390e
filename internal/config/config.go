// Package config loads settings from a YAML file, .env files and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "climate-sentiment.yaml"

// Environment variables that override file settings.
const (
	EnvDB        = "CLIMATE_SENTIMENT_DB"
	EnvOracle    = "CLIMATE_SENTIMENT_ORACLE"
	EnvOracleURL = "CLIMATE_SENTIMENT_ORACLE_URL"
	EnvOracleKey = "CLIMATE_SENTIMENT_ORACLE_KEY"
	EnvWorkers   = "CLIMATE_SENTIMENT_WORKERS"
	EnvLogLevel  = "LOG_LEVEL"
)

// Config is the full application configuration.
type Config struct {
	DB       string        `yaml:"db"`
	Format   string        `yaml:"format"`
	LogLevel string        `yaml:"log_level"`
	Ingest   IngestConfig  `yaml:"ingest"`
	Oracle   OracleConfig  `yaml:"oracle"`
	Scoring  ScoringConfig `yaml:"scoring"`
	Report   ReportConfig  `yaml:"report"`
}

type IngestConfig struct {
	OnMalformed     string  `yaml:"on_malformed"`
	StripNewlines   bool    `yaml:"strip_newlines"`
	Denoise         bool    `yaml:"denoise"`
	EnglishOnly     bool    `yaml:"english_only"`
	DedupeThreshold float64 `yaml:"dedupe_threshold"` // 0 disables
}

type OracleConfig struct {
	Provider   string        `yaml:"provider"`
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

type ScoringConfig struct {
	Workers int `yaml:"workers"`
}

type ReportConfig struct {
	Bins     int `yaml:"bins"`
	TopTerms int `yaml:"top_terms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DB:       defaultDBPath(),
		Format:   "json",
		LogLevel: "info",
		Ingest: IngestConfig{
			OnMalformed:   "abort",
			StripNewlines: true,
		},
		Oracle: OracleConfig{
			Provider:   "vader",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Scoring: ScoringConfig{Workers: 1},
		Report:  ReportConfig{Bins: 20, TopTerms: 10},
	}
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".climate-sentiment", "runs.db")
}

// Load builds the configuration: defaults, then the YAML file, then the
// environment. An explicit path must exist; the default file is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.DB = v
	}
	if v := os.Getenv(EnvOracle); v != "" {
		c.Oracle.Provider = v
	}
	if v := os.Getenv(EnvOracleURL); v != "" {
		c.Oracle.URL = v
	}
	if v := os.Getenv(EnvOracleKey); v != "" {
		c.Oracle.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Scoring.Workers = n
	}
	return nil
}

// Validate rejects unknown enum values and impossible numbers.
func (c *Config) Validate() error {
	var errs []error
	if !oneOf(c.Format, "json", "yaml", "text") {
		errs = append(errs, fmt.Errorf("format %q (valid: json, yaml, text)", c.Format))
	}
	if !oneOf(c.Ingest.OnMalformed, "abort", "skip") {
		errs = append(errs, fmt.Errorf("ingest.on_malformed %q (valid: abort, skip)", c.Ingest.OnMalformed))
	}
	if !oneOf(c.Oracle.Provider, "vader", "http") {
		errs = append(errs, fmt.Errorf("oracle.provider %q (valid: vader, http)", c.Oracle.Provider))
	}
	if strings.EqualFold(c.Oracle.Provider, "http") && c.Oracle.URL == "" {
		errs = append(errs, errors.New("oracle.url is required for the http provider"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Scoring.Workers < 1 {
		errs = append(errs, fmt.Errorf("scoring.workers must be at least 1, got %d", c.Scoring.Workers))
	}
	if c.Report.Bins < 1 {
		errs = append(errs, fmt.Errorf("report.bins must be at least 1, got %d", c.Report.Bins))
	}
	if c.Ingest.DedupeThreshold < 0 || c.Ingest.DedupeThreshold > 1 {
		errs = append(errs, fmt.Errorf("ingest.dedupe_threshold must be within [0,1], got %v", c.Ingest.DedupeThreshold))
	}
	if c.Oracle.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("oracle.max_retries must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func oneOf(v string, valid ...string) bool {
	for _, s := range valid {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// LoadEnv loads .env files from the working directory into the process
// environment. Missing files are ignored.
func LoadEnv(logger logrus.FieldLogger) {
	files := []string{".env", ".env.local"}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("failed to load %s", file)
			}
			continue
		}
		loaded = append(loaded, file)
	}
	if logger != nil && len(loaded) > 0 {
		logger.Debugf("loaded env files: %s", strings.Join(loaded, ", "))
	}
}
