// Package pipeline runs ingestion, filtering, partitioning and scoring as
// one analysis.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/rcliao/climate-sentiment/internal/dedupe"
	"github.com/rcliao/climate-sentiment/internal/ingest"
	"github.com/rcliao/climate-sentiment/internal/langdetect"
	"github.com/rcliao/climate-sentiment/internal/logging"
	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/partition"
	"github.com/rcliao/climate-sentiment/internal/score"
)

// Options configures an analysis.
type Options struct {
	Ingest      ingest.Options
	EnglishOnly bool
	// DedupeThreshold drops near-duplicate tweets at or above this
	// similarity; 0 disables the check.
	DedupeThreshold float64
	Workers         int
	Logger          logrus.FieldLogger
}

// Result is a scored analysis ready to persist or report.
type Result struct {
	Ingest     *ingest.Result
	Partition  model.Partition
	NonEnglish int
	Duplicates int
}

// Dropped is the number of tweets filtered out after ingestion.
func (r *Result) Dropped() int {
	return r.NonEnglish + r.Duplicates
}

// Tweets flattens the scored partition in category order.
func (r *Result) Tweets() []model.Tweet {
	return r.Partition.All()
}

// RunFile analyzes the CSV file at path.
func RunFile(ctx context.Context, path string, o score.Oracle, opts Options) (*Result, error) {
	ing, err := ingest.ReadFile(path, withLogger(opts).Ingest)
	if err != nil {
		return nil, err
	}
	return run(ctx, ing, o, opts)
}

// Run analyzes CSV data read from r.
func Run(ctx context.Context, r io.Reader, o score.Oracle, opts Options) (*Result, error) {
	ing, err := ingest.Read(r, withLogger(opts).Ingest)
	if err != nil {
		return nil, err
	}
	return run(ctx, ing, o, opts)
}

func withLogger(opts Options) Options {
	if opts.Ingest.Logger == nil {
		opts.Ingest.Logger = opts.Logger
	}
	return opts
}

func run(ctx context.Context, ing *ingest.Result, o score.Oracle, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	res := &Result{Ingest: ing}
	tweets := ing.Tweets

	if opts.EnglishOnly {
		tweets, res.NonEnglish = langdetect.New().KeepEnglish(tweets)
		log.WithField("dropped", res.NonEnglish).Info("filtered non-English tweets")
	}
	if opts.DedupeThreshold > 0 {
		tweets, res.Duplicates = dedupe.Drop(tweets, opts.DedupeThreshold)
		log.WithField("dropped", res.Duplicates).Info("dropped near-duplicate tweets")
	}

	p, err := partition.ByCategory(tweets)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}

	log.WithFields(logrus.Fields{
		"tweets":  p.Len(),
		"workers": opts.Workers,
	}).Info("scoring tweets")

	scored, err := score.EnrichPartition(ctx, o, p, opts.Workers)
	if err != nil {
		return nil, err
	}
	res.Partition = scored
	return res, nil
}
