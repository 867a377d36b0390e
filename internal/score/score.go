// Package score attaches sentiment polarity to tweets through a pluggable oracle.
package score

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// Oracle scores a piece of text. Implementations must be deterministic per input.
type Oracle interface {
	Score(ctx context.Context, text string) (model.Polarity, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, text string) (model.Polarity, error)

func (f OracleFunc) Score(ctx context.Context, text string) (model.Polarity, error) {
	return f(ctx, text)
}

// Provider names accepted by New.
const (
	ProviderVader = "vader"
	ProviderHTTP  = "http"
)

// Config selects and tunes an oracle.
type Config struct {
	Provider   string
	URL        string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// New creates the oracle named by cfg.Provider. An empty provider means vader.
func New(cfg Config) (Oracle, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderVader:
		return NewVader(), nil
	case ProviderHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http oracle requires a url")
		}
		return NewHTTPOracle(cfg), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q (valid: vader, http)", cfg.Provider)
	}
}

// Enrich scores every tweet and returns enriched copies in input order.
// The input slice is not modified. workers > 1 scores concurrently.
func Enrich(ctx context.Context, o Oracle, tweets []model.Tweet, workers int) ([]model.Tweet, error) {
	out := make([]model.Tweet, len(tweets))
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range tweets {
		g.Go(func() error {
			p, err := o.Score(gctx, t.Text)
			if err != nil {
				return fmt.Errorf("score tweet %d (%s): %w", i, t.Category, err)
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("score tweet %d (%s): oracle output: %w", i, t.Category, err)
			}
			out[i] = t.WithPolarity(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrichPartition enriches every group of p and returns a new partition.
func EnrichPartition(ctx context.Context, o Oracle, p model.Partition, workers int) (model.Partition, error) {
	out := model.NewPartition()
	for _, c := range model.Categories {
		scored, err := Enrich(ctx, o, p[c], workers)
		if err != nil {
			return nil, fmt.Errorf("enrich %s: %w", c, err)
		}
		out[c] = scored
	}
	return out, nil
}
