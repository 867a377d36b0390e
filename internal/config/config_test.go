package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Oracle.Provider != "vader" || cfg.Ingest.OnMalformed != "abort" || !cfg.Ingest.StripNewlines {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !strings.HasSuffix(cfg.DB, filepath.Join(".climate-sentiment", "runs.db")) {
		t.Errorf("unexpected default db %q", cfg.DB)
	}
}

func TestLoad_FileKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.yaml", `
format: yaml
ingest:
  on_malformed: skip
  english_only: true
oracle:
  provider: http
  url: http://localhost:8080/score
  timeout: 5s
scoring:
  workers: 4
`)
	t.Setenv(EnvOracle, "")
	t.Setenv(EnvOracleURL, "")
	t.Setenv(EnvWorkers, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "yaml" || cfg.Ingest.OnMalformed != "skip" || !cfg.Ingest.EnglishOnly {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Ingest.StripNewlines {
		t.Error("unset strip_newlines should keep its default")
	}
	if cfg.Oracle.Timeout != 5*time.Second || cfg.Oracle.MaxRetries != 3 {
		t.Errorf("unexpected oracle config %+v", cfg.Oracle)
	}
	if cfg.Scoring.Workers != 4 || cfg.Report.Bins != 20 {
		t.Errorf("unexpected scoring/report config: %+v %+v", cfg.Scoring, cfg.Report)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvDB, "/tmp/x.db")
	t.Setenv(EnvOracle, "http")
	t.Setenv(EnvOracleURL, "http://oracle")
	t.Setenv(EnvWorkers, "8")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "/tmp/x.db" || cfg.Oracle.Provider != "http" || cfg.Oracle.URL != "http://oracle" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Scoring.Workers != 8 || cfg.LogLevel != "debug" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"format", func(c *Config) { c.Format = "xml" }},
		{"policy", func(c *Config) { c.Ingest.OnMalformed = "ignore" }},
		{"provider", func(c *Config) { c.Oracle.Provider = "textblob" }},
		{"http without url", func(c *Config) { c.Oracle.Provider = "http" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"workers", func(c *Config) { c.Scoring.Workers = 0 }},
		{"bins", func(c *Config) { c.Report.Bins = 0 }},
		{"dedupe", func(c *Config) { c.Ingest.DedupeThreshold = 1.5 }},
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", EnvOracleURL+"=http://from-dotenv\n")
	t.Setenv(EnvOracleURL, "")

	LoadEnv(nil)
	if got := os.Getenv(EnvOracleURL); got != "http://from-dotenv" {
		t.Errorf("expected value from .env, got %q", got)
	}
}
