package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/partition"
	"github.com/rcliao/climate-sentiment/internal/report"
	"github.com/rcliao/climate-sentiment/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "report [run]",
		Short: "Rebuild the report of a stored run",
		Long:  "Rebuild the per-category report of a stored run. The run is an id or unique id prefix; the latest run is used when omitted.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runReport,
	}

	cmd.Flags().Int("bins", 0, "Histogram bins")
	cmd.Flags().Int("top-terms", 0, "Top terms per category")

	RootCmd.AddCommand(cmd)
}

func runReport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	opts := report.Options{Bins: cfg.Report.Bins, TopTerms: cfg.Report.TopTerms}
	if cmd.Flags().Changed("bins") {
		opts.Bins, _ = cmd.Flags().GetInt("bins")
	}
	if cmd.Flags().Changed("top-terms") {
		opts.TopTerms, _ = cmd.Flags().GetInt("top-terms")
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, p, err := loadRun(cmd.Context(), s, optionalArg(args))
	if err != nil {
		exitErr("load run", err)
	}

	rep, err := report.Build(run, p, opts)
	if err != nil {
		exitErr("build report", err)
	}
	output(cmd, cfg, rep)
}

// loadRun fetches a stored run and regroups its tweets by category.
func loadRun(ctx context.Context, s store.Store, id string) (*model.Run, model.Partition, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tweets, err := s.LoadTweets(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	p, err := partition.ByCategory(tweets)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	return run, p, nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
