package report

import (
	"fmt"
	"strings"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/stats"
)

// ChartKind names a chart payload.
type ChartKind string

const (
	// Histogram of compound scores per category.
	ChartHistogram ChartKind = "histogram"
	// Scatter of positive against negative score per tweet.
	ChartScatter ChartKind = "scatter"
	// Box plot of compound scores per category.
	ChartBox ChartKind = "box"
	// Grouped bar of bucket percentages across categories.
	ChartBar ChartKind = "bar"
	// Opinion counts and mean compound per category.
	ChartOpinion ChartKind = "opinion"
)

// ChartKinds lists every kind in display order.
var ChartKinds = []ChartKind{ChartHistogram, ChartScatter, ChartBox, ChartBar, ChartOpinion}

// ParseChartKind validates a chart kind name.
func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range ChartKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart %q (valid: histogram, scatter, box, bar, opinion)", s)
}

// Series is one category's data within a chart.
type Series struct {
	Category  model.Category  `json:"category" yaml:"category"`
	Count     int             `json:"count" yaml:"count"`
	Histogram []stats.Bin     `json:"histogram,omitempty" yaml:"histogram,omitempty"`
	Points    []stats.Point   `json:"points,omitempty" yaml:"points,omitempty"`
	Box       *stats.BoxStats `json:"box,omitempty" yaml:"box,omitempty"`
	Mean      *float64        `json:"mean,omitempty" yaml:"mean,omitempty"`
}

// Chart is the payload a renderer needs to draw one chart.
type Chart struct {
	Kind        ChartKind            `json:"kind" yaml:"kind"`
	Thresholds  *stats.Thresholds    `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Series      []Series             `json:"series,omitempty" yaml:"series,omitempty"`
	Frequencies []stats.Frequency    `json:"frequencies,omitempty" yaml:"frequencies,omitempty"`
	Opinions    []stats.OpinionCount `json:"opinions,omitempty" yaml:"opinions,omitempty"`
}

// BuildChart computes the payload for kind. only restricts per-category
// charts to a single category; nil means all of them. bins applies to
// histograms.
func BuildChart(kind ChartKind, p model.Partition, only *model.Category, bins int) (*Chart, error) {
	ch := &Chart{Kind: kind}

	switch kind {
	case ChartBar:
		th, freqs, err := stats.CompareFrequencies(p)
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		ch.Thresholds, ch.Frequencies = &th, freqs
		return ch, nil
	case ChartOpinion:
		ch.Opinions = stats.OpinionCounts(p)
	case ChartHistogram, ChartScatter, ChartBox:
	default:
		return nil, fmt.Errorf("unknown chart %q", kind)
	}

	categories := model.Categories
	if only != nil {
		categories = []model.Category{*only}
	}
	for _, c := range categories {
		s, err := buildSeries(kind, c, p[c], bins)
		if err != nil {
			return nil, fmt.Errorf("%s chart %s: %w", kind, c, err)
		}
		ch.Series = append(ch.Series, s)
	}
	return ch, nil
}

func buildSeries(kind ChartKind, c model.Category, tweets []model.Tweet, bins int) (Series, error) {
	s := Series{Category: c, Count: len(tweets)}

	if kind == ChartScatter {
		pts, err := stats.ScatterPoints(tweets)
		if err != nil {
			return s, err
		}
		s.Points = pts
		return s, nil
	}

	compounds, err := stats.Compounds(tweets)
	if err != nil {
		return s, err
	}

	switch kind {
	case ChartHistogram:
		if bins < 1 {
			bins = 20
		}
		s.Histogram, err = stats.Histogram(compounds, bins, compoundLo, compoundHi)
	case ChartBox:
		if len(compounds) > 0 {
			var b stats.BoxStats
			b, err = stats.Box(compounds)
			s.Box = &b
		}
	case ChartOpinion:
		if len(compounds) > 0 {
			var sum stats.Summary
			sum, err = stats.Summarize(compounds)
			s.Mean = &sum.Mean
		}
	}
	return s, err
}
