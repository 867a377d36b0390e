package cli

import (
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Long:  "List stored analysis runs, newest first.",
		Run:   runRuns,
	}

	cmd.Flags().String("source", "", "Filter by input file")
	cmd.Flags().String("since", "", "Only runs created at or after this time (e.g. 2024-05-01, \"May 1 2024 10:00\")")
	cmd.Flags().IntP("limit", "l", 50, "Max results")

	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	source, _ := cmd.Flags().GetString("source")
	since, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")

	p := store.ListParams{Source: source, Limit: limit}
	if since != "" {
		t, err := dateparse.ParseAny(since)
		if err != nil {
			exitErr("parse --since", err)
		}
		p.Since = t
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), p)
	if err != nil {
		exitErr("runs", err)
	}
	if runs == nil {
		runs = []model.Run{}
	}
	output(cmd, cfg, runs)
}
