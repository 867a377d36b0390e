package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/climate-sentiment/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import an exported run",
		Long:  "Import a run produced by export (JSON or YAML) from a file or stdin. The run keeps its id unless one is already stored.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		exitErr("read input", err)
	}

	exp, err := decodeExport(data)
	if err != nil {
		exitErr("parse export", err)
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.ImportRun(cmd.Context(), exp)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"imported":%d}`+"\n", run.ID, run.Tweets)
}

func decodeExport(data []byte) (*store.Export, error) {
	var exp store.Export
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &exp); err != nil {
			return nil, err
		}
		return &exp, nil
	}
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}
