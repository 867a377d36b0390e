package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/normalize"
	"github.com/rcliao/climate-sentiment/internal/score"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clean [text]",
		Short: "Normalize tweet text",
		Long: "Apply the ingestion normalizer to the given text, or to each line of stdin when no text is given. " +
			"Optionally strip noise tokens and score the result.",
		Run: runClean,
	}

	cmd.Flags().Bool("denoise", false, "Drop links, mentions, hashtags and RT markers")
	cmd.Flags().Bool("keep-newlines", false, "Keep newlines inside the text")
	cmd.Flags().Bool("score", false, "Score the cleaned text with the configured oracle")

	RootCmd.AddCommand(cmd)
}

type cleaned struct {
	Raw      string          `json:"raw" yaml:"raw"`
	Text     string          `json:"text" yaml:"text"`
	Polarity *model.Polarity `json:"polarity,omitempty" yaml:"polarity,omitempty"`
}

func runClean(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	denoise, _ := cmd.Flags().GetBool("denoise")
	keepNewlines, _ := cmd.Flags().GetBool("keep-newlines")
	withScore, _ := cmd.Flags().GetBool("score")

	var inputs []string
	if len(args) > 0 {
		inputs = []string{strings.Join(args, " ")}
	} else {
		sc := bufio.NewScanner(cmd.InOrStdin())
		sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
		for sc.Scan() {
			if line := sc.Text(); strings.TrimSpace(line) != "" {
				inputs = append(inputs, line)
			}
		}
		if err := sc.Err(); err != nil {
			exitErr("read stdin", err)
		}
	}

	var oracle score.Oracle
	if withScore {
		var err error
		oracle, err = newOracle(cfg)
		if err != nil {
			exitErr("create oracle", err)
		}
	}

	opts := normalize.Options{StripNewlines: !keepNewlines}
	out := make([]cleaned, 0, len(inputs))
	for _, raw := range inputs {
		c := cleaned{Raw: raw, Text: normalize.Normalize(raw, opts)}
		if denoise {
			c.Text = normalize.Denoise(c.Text)
		}
		if oracle != nil && strings.TrimSpace(c.Text) != "" {
			pol, err := oracle.Score(cmd.Context(), c.Text)
			if err != nil {
				exitErr("score", err)
			}
			c.Polarity = &pol
		}
		out = append(out, c)
	}
	output(cmd, cfg, out)
}
