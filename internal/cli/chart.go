package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/report"
)

func init() {
	names := make([]string, len(report.ChartKinds))
	for i, k := range report.ChartKinds {
		names[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:       "chart <" + strings.Join(names, "|") + "> [run]",
		Short:     "Print the data behind a chart",
		Long:      "Print the payload of one chart for a stored run: compound histograms, positive/negative scatter, box plots, bucket percentages or opinion counts.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: names,
		Run:       runChart,
	}

	cmd.Flags().String("category", "", "Restrict per-category charts to one category (name or label)")
	cmd.Flags().Int("bins", 0, "Histogram bins")

	RootCmd.AddCommand(cmd)
}

func runChart(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	kind, err := report.ParseChartKind(args[0])
	if err != nil {
		exitErr("chart", err)
	}
	bins := cfg.Report.Bins
	if cmd.Flags().Changed("bins") {
		bins, _ = cmd.Flags().GetInt("bins")
	}
	var only *model.Category
	if name, _ := cmd.Flags().GetString("category"); name != "" {
		c, err := model.CategoryFromName(name)
		if err != nil {
			exitErr("chart", err)
		}
		only = &c
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	_, p, err := loadRun(cmd.Context(), s, optionalArg(args[1:]))
	if err != nil {
		exitErr("load run", err)
	}

	ch, err := report.BuildChart(kind, p, only, bins)
	if err != nil {
		exitErr("build chart", err)
	}
	output(cmd, cfg, ch)
}
