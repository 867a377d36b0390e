package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// TextWriter is implemented by payloads with a human-readable form.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// Write renders v in the given format. Text falls back to YAML for values
// without a text form.
func Write(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		if tw, ok := v.(TextWriter); ok {
			return tw.WriteText(w)
		}
		return Write(w, FormatYAML, v)
	default:
		return fmt.Errorf("unknown format %q (valid: json, yaml, text)", format)
	}
}

// WriteText prints a per-category table.
func (r *Report) WriteText(w io.Writer) error {
	if r.RunID != "" {
		fmt.Fprintf(w, "run %s  source %s  oracle %s\n", r.RunID, r.Source, r.Oracle)
	}
	fmt.Fprintf(w, "tweets: %d\n", r.Total)
	if r.Thresholds != nil {
		fmt.Fprintf(w, "neutral band: [%.4f, %.4f]\n", r.Thresholds.Lower, r.Thresholds.Upper)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tMEAN\tMEDIAN\tSTDDEV\tMIN\tMAX\tNEG%\tNEU%\tPOS%")
	for _, c := range r.Categories {
		if c.Summary == nil {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\t-\t-\t-\t-\t-\t-\n", c.Category, c.Count)
			continue
		}
		s := c.Summary
		neg, neu, pos := "-", "-", "-"
		if c.Percentages != nil {
			neg = fmt.Sprintf("%.1f", c.Percentages.Negative)
			neu = fmt.Sprintf("%.1f", c.Percentages.Neutral)
			pos = fmt.Sprintf("%.1f", c.Percentages.Positive)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\t%s\t%s\n",
			c.Category, c.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max, neg, neu, pos)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, c := range r.Categories {
		if len(c.TopTerms) == 0 {
			continue
		}
		words := make([]string, len(c.TopTerms))
		for i, t := range c.TopTerms {
			words[i] = fmt.Sprintf("%s(%d)", t.Word, t.Count)
		}
		fmt.Fprintf(w, "\n%s top terms: %s", c.Category, strings.Join(words, " "))
	}
	if len(r.Categories) > 0 {
		fmt.Fprintln(w)
	}
	return nil
}

// WriteText prints the chart data as tab-aligned rows.
func (c *Chart) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch c.Kind {
	case ChartBar:
		fmt.Fprintln(tw, "CATEGORY\tNEG\tNEU\tPOS\tNEG%\tNEU%\tPOS%")
		for _, f := range c.Frequencies {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%.1f\t%.1f\n", f.Category,
				f.Buckets.Negative, f.Buckets.Neutral, f.Buckets.Positive,
				f.Percentages.Negative, f.Percentages.Neutral, f.Percentages.Positive)
		}
	case ChartOpinion:
		fmt.Fprintln(tw, "CATEGORY\tCOUNT\tMEAN")
		for _, s := range c.Series {
			mean := "-"
			if s.Mean != nil {
				mean = fmt.Sprintf("%.4f", *s.Mean)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Category, s.Count, mean)
		}
	case ChartBox:
		fmt.Fprintln(tw, "CATEGORY\tCOUNT\tMIN\tQ1\tMEDIAN\tQ3\tMAX")
		for _, s := range c.Series {
			if s.Box == nil {
				fmt.Fprintf(tw, "%s\t%d\t-\t-\t-\t-\t-\n", s.Category, s.Count)
				continue
			}
			b := s.Box
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Category, s.Count, b.Min, b.Q1, b.Median, b.Q3, b.Max)
		}
	case ChartHistogram:
		fmt.Fprintln(tw, "CATEGORY\tFROM\tTO\tCOUNT")
		for _, s := range c.Series {
			for _, b := range s.Histogram {
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%d\n", s.Category, b.Lo, b.Hi, b.Count)
			}
		}
	case ChartScatter:
		fmt.Fprintln(tw, "CATEGORY\tPOS\tNEG")
		for _, s := range c.Series {
			for _, p := range s.Points {
				fmt.Fprintf(tw, "%s\t%.3f\t%.3f\n", s.Category, p.X, p.Y)
			}
		}
	}
	return tw.Flush()
}
