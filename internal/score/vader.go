package score

import (
	"context"
	"sync"

	"github.com/jonreiter/govader"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// Vader scores text in-process with the VADER lexicon.
type Vader struct {
	mu       sync.Mutex
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader loads the lexicon. It is safe for concurrent use.
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Score(ctx context.Context, text string) (model.Polarity, error) {
	if err := ctx.Err(); err != nil {
		return model.Polarity{}, err
	}
	v.mu.Lock()
	s := v.analyzer.PolarityScores(text)
	v.mu.Unlock()

	return model.Polarity{
		Neg:      s.Negative,
		Neu:      s.Neutral,
		Pos:      s.Positive,
		Compound: s.Compound,
	}, nil
}
