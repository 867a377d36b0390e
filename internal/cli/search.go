package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stored tweets by text",
		Long:  "Find stored tweets whose text contains the query, case-insensitively, newest run first.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("run", "", "Restrict to one run (id or prefix)")
	cmd.Flags().String("category", "", "Filter by category (name or label)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	runID, _ := cmd.Flags().GetString("run")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	p := store.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
	}
	if category != "" {
		c, err := model.CategoryFromName(category)
		if err != nil {
			exitErr("search", err)
		}
		p.Category = &c
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if runID != "" {
		run, err := s.GetRun(cmd.Context(), runID)
		if err != nil {
			exitErr("search", err)
		}
		p.RunID = run.ID
	}

	results, err := s.Search(cmd.Context(), p)
	if err != nil {
		exitErr("search", err)
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	output(cmd, cfg, results)
}
