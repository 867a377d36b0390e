// Package report assembles per-category sentiment summaries and chart
// payloads and renders them as JSON, YAML or text.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/stats"
	"github.com/rcliao/climate-sentiment/internal/terms"
)

// Compound scores span [-1, 1].
const (
	compoundLo = -1.0
	compoundHi = 1.0
)

// Options tunes report contents.
type Options struct {
	Bins     int
	TopTerms int
}

// Report is the full analysis of one run.
type Report struct {
	RunID      string               `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Source     string               `json:"source,omitempty" yaml:"source,omitempty"`
	Oracle     string               `json:"oracle,omitempty" yaml:"oracle,omitempty"`
	CreatedAt  time.Time            `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	Total      int                  `json:"total" yaml:"total"`
	Opinions   []stats.OpinionCount `json:"opinions" yaml:"opinions"`
	Thresholds *stats.Thresholds    `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Categories []CategoryReport     `json:"categories" yaml:"categories"`
}

// CategoryReport summarizes one category. Fields that need at least one
// tweet are nil for an empty group.
type CategoryReport struct {
	Category    model.Category     `json:"category" yaml:"category"`
	Count       int                `json:"count" yaml:"count"`
	Summary     *stats.Summary     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Box         *stats.BoxStats    `json:"box,omitempty" yaml:"box,omitempty"`
	Buckets     *stats.Buckets     `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Percentages *stats.Percentages `json:"percentages,omitempty" yaml:"percentages,omitempty"`
	Histogram   []stats.Bin        `json:"histogram,omitempty" yaml:"histogram,omitempty"`
	TopTerms    []terms.Term       `json:"top_terms,omitempty" yaml:"top_terms,omitempty"`
}

// Build computes the report for a scored partition. run may be nil.
// Buckets are omitted when thresholds cannot be derived because the
// neutral and news groups are both empty.
func Build(run *model.Run, p model.Partition, opts Options) (*Report, error) {
	if opts.Bins < 1 {
		opts.Bins = 20
	}

	r := &Report{
		Total:    p.Len(),
		Opinions: stats.OpinionCounts(p),
	}
	if run != nil {
		r.RunID, r.Source, r.Oracle, r.CreatedAt = run.ID, run.Source, run.Oracle, run.CreatedAt
	}

	th, err := stats.DeriveThresholds(p)
	switch {
	case err == nil:
		r.Thresholds = &th
	case !errors.Is(err, model.ErrEmptyInput):
		return nil, err
	}

	for _, c := range model.Categories {
		cr, err := buildCategory(c, p[c], r.Thresholds, opts)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", c, err)
		}
		r.Categories = append(r.Categories, cr)
	}
	return r, nil
}

func buildCategory(c model.Category, tweets []model.Tweet, th *stats.Thresholds, opts Options) (CategoryReport, error) {
	cr := CategoryReport{Category: c, Count: len(tweets)}

	compounds, err := stats.Compounds(tweets)
	if err != nil {
		return cr, err
	}
	if opts.TopTerms > 0 {
		cr.TopTerms = terms.Top(tweets, opts.TopTerms)
	}
	if len(compounds) == 0 {
		return cr, nil
	}

	summary, err := stats.Summarize(compounds)
	if err != nil {
		return cr, err
	}
	box, err := stats.Box(compounds)
	if err != nil {
		return cr, err
	}
	hist, err := stats.Histogram(compounds, opts.Bins, compoundLo, compoundHi)
	if err != nil {
		return cr, err
	}
	cr.Summary, cr.Box, cr.Histogram = &summary, &box, hist

	if th != nil {
		b, err := stats.Bucket(tweets, *th)
		if err != nil {
			return cr, err
		}
		pct := b.Percentages()
		cr.Buckets, cr.Percentages = &b, &pct
	}
	return cr, nil
}
