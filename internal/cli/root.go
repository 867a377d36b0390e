// Package cli implements the climate-sentiment CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/config"
	"github.com/rcliao/climate-sentiment/internal/logging"
	"github.com/rcliao/climate-sentiment/internal/report"
	"github.com/rcliao/climate-sentiment/internal/score"
	"github.com/rcliao/climate-sentiment/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "climate-sentiment",
	Short: "Sentiment analysis of labeled climate-change tweets",
	Long: "Ingest labeled climate tweets, score them with a sentiment oracle and " +
		"summarize the scores per opinion group. Runs are kept in SQLite so reports " +
		"and charts can be rebuilt without rescoring.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CLIMATE_SENTIMENT_DB or ~/.climate-sentiment/runs.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: json, yaml or text (default json)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./"+config.DefaultFile+" when present)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// loadConfig resolves settings from .env files, the config file, the
// environment and finally the persistent flags.
func loadConfig() *config.Config {
	config.LoadEnv(logging.NewLogger(os.Getenv(config.EnvLogLevel)))

	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DB = dbPath
	}
	if formatFlag != "" {
		cfg.Format = formatFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) logrus.FieldLogger {
	return logging.NewLogger(cfg.LogLevel)
}

func newOracle(cfg *config.Config) (score.Oracle, error) {
	return score.New(score.Config{
		Provider:   cfg.Oracle.Provider,
		URL:        cfg.Oracle.URL,
		APIKey:     cfg.Oracle.APIKey,
		Timeout:    cfg.Oracle.Timeout,
		MaxRetries: cfg.Oracle.MaxRetries,
	})
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DB)
}

func output(cmd *cobra.Command, cfg *config.Config, v any) {
	if err := report.Write(cmd.OutOrStdout(), cfg.Format, v); err != nil {
		exitErr("write output", err)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
