package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [run]",
		Short: "Export a run with its scored tweets",
		Long:  "Export a stored run and its tweets as JSON (or YAML with -f yaml). The latest run is used when omitted.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	out, _ := cmd.Flags().GetString("out")

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exp, err := s.ExportRun(cmd.Context(), optionalArg(args))
	if err != nil {
		exitErr("export", err)
	}

	if out == "" {
		output(cmd, cfg, exp)
		return
	}

	f, err := os.Create(out)
	if err != nil {
		exitErr("create output", err)
	}
	// Text has no import path back, so files are always structured.
	format := cfg.Format
	if format == report.FormatText {
		format = report.FormatJSON
	}
	if err := report.Write(f, format, exp); err != nil {
		f.Close()
		exitErr("export", err)
	}
	if err := f.Close(); err != nil {
		exitErr("export", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"tweets":%d,"out":%q}`+"\n", exp.Run.ID, len(exp.Tweets), out)
}
