package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/config"
	"github.com/rcliao/climate-sentiment/internal/ingest"
	"github.com/rcliao/climate-sentiment/internal/logging"
	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/normalize"
	"github.com/rcliao/climate-sentiment/internal/pipeline"
	"github.com/rcliao/climate-sentiment/internal/report"
	"github.com/rcliao/climate-sentiment/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Score a tweet file and print its report",
		Long: "Read a labeled tweet CSV (header, category, text, optional id), normalize and " +
			"score every tweet, save the run and print the per-category report.",
		Args: cobra.ExactArgs(1),
		Run:  runAnalyze,
	}

	cmd.Flags().String("on-malformed", "", "Malformed row policy: abort or skip")
	cmd.Flags().Bool("denoise", false, "Drop links, mentions, hashtags and RT markers")
	cmd.Flags().Bool("keep-newlines", false, "Keep newlines inside tweet text")
	cmd.Flags().Bool("english-only", false, "Drop tweets detected as another language")
	cmd.Flags().Float64("dedupe", 0, "Drop near-duplicates at or above this similarity (0 disables)")
	cmd.Flags().String("oracle", "", "Sentiment oracle: vader or http")
	cmd.Flags().String("oracle-url", "", "Endpoint for the http oracle")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent scoring workers")
	cmd.Flags().Int("bins", 0, "Histogram bins")
	cmd.Flags().Int("top-terms", 0, "Top terms per category")
	cmd.Flags().Bool("no-save", false, "Do not store the run")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	applyAnalyzeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}
	noSave, _ := cmd.Flags().GetBool("no-save")
	log := newLogger(cfg)
	path := args[0]

	policy, err := ingest.ParsePolicy(cfg.Ingest.OnMalformed)
	if err != nil {
		exitErr("analyze", err)
	}
	oracle, err := newOracle(cfg)
	if err != nil {
		exitErr("create oracle", err)
	}

	res, err := pipeline.RunFile(cmd.Context(), path, oracle, pipeline.Options{
		Ingest: ingest.Options{
			OnMalformed: policy,
			Normalize:   normalize.Options{StripNewlines: cfg.Ingest.StripNewlines},
			Denoise:     cfg.Ingest.Denoise,
			Logger:      log,
		},
		EnglishOnly:     cfg.Ingest.EnglishOnly,
		DedupeThreshold: cfg.Ingest.DedupeThreshold,
		Workers:         cfg.Scoring.Workers,
		Logger:          log,
	})
	if err != nil {
		exitErr("analyze", err)
	}

	params := store.SaveRunParams{
		Source:  path,
		Policy:  string(policy),
		Oracle:  cfg.Oracle.Provider,
		Charset: res.Ingest.Charset,
		Rows:    res.Ingest.Rows,
		Skipped: len(res.Ingest.Skipped),
		Dropped: res.Dropped(),
		Tweets:  res.Tweets(),
	}

	var run *model.Run
	if noSave {
		run = &model.Run{
			Source:  params.Source,
			Policy:  params.Policy,
			Oracle:  params.Oracle,
			Charset: params.Charset,
			Rows:    params.Rows,
			Skipped: params.Skipped,
			Dropped: params.Dropped,
			Tweets:  len(params.Tweets),
		}
	} else {
		s, err := openStore(cfg)
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		run, err = s.SaveRun(cmd.Context(), params)
		if err != nil {
			exitErr("save run", err)
		}
		log.WithFields(logging.Fields{
			"run":     run.ID,
			"tweets":  run.Tweets,
			"skipped": run.Skipped,
			"dropped": run.Dropped,
		}).Info("run saved")
	}

	rep, err := report.Build(run, res.Partition, report.Options{
		Bins:     cfg.Report.Bins,
		TopTerms: cfg.Report.TopTerms,
	})
	if err != nil {
		exitErr("build report", err)
	}
	output(cmd, cfg, rep)
}

// applyAnalyzeFlags lets explicitly set flags win over file and env settings.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("on-malformed") {
		cfg.Ingest.OnMalformed, _ = f.GetString("on-malformed")
	}
	if f.Changed("denoise") {
		cfg.Ingest.Denoise, _ = f.GetBool("denoise")
	}
	if f.Changed("keep-newlines") {
		keep, _ := f.GetBool("keep-newlines")
		cfg.Ingest.StripNewlines = !keep
	}
	if f.Changed("english-only") {
		cfg.Ingest.EnglishOnly, _ = f.GetBool("english-only")
	}
	if f.Changed("dedupe") {
		cfg.Ingest.DedupeThreshold, _ = f.GetFloat64("dedupe")
	}
	if f.Changed("oracle") {
		cfg.Oracle.Provider, _ = f.GetString("oracle")
	}
	if f.Changed("oracle-url") {
		cfg.Oracle.URL, _ = f.GetString("oracle-url")
	}
	if f.Changed("workers") {
		cfg.Scoring.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("bins") {
		cfg.Report.Bins, _ = f.GetInt("bins")
	}
	if f.Changed("top-terms") {
		cfg.Report.TopTerms, _ = f.GetInt("top-terms")
	}
}
