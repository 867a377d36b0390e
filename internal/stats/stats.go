// Package stats computes descriptive statistics and chart payloads over
// scored tweets.
package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// Summary describes one sample of values.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Range  float64 `json:"range" yaml:"range"`
}

// Summarize returns mean, median, sample standard deviation, min, max and
// range. A single value has a standard deviation of 0.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("summarize: %w", model.ErrEmptyInput)
	}

	lo, hi := floats.Min(values), floats.Max(values)
	s := Summary{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Median: median(sorted(values)),
		Min:    lo,
		Max:    hi,
		Range:  hi - lo,
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s, nil
}

// Compounds extracts compound scores in order. Every tweet must be scored.
func Compounds(tweets []model.Tweet) ([]float64, error) {
	out := make([]float64, len(tweets))
	for i, t := range tweets {
		if err := requireScored(i, t); err != nil {
			return nil, err
		}
		out[i] = t.Polarity.Compound
	}
	return out, nil
}

// Thresholds split compound scores into negative, neutral and positive.
type Thresholds struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// DeriveThresholds takes the compound range spanned by the neutral and news
// groups as the neutral band.
func DeriveThresholds(p model.Partition) (Thresholds, error) {
	var values []float64
	for _, c := range []model.Category{model.Neutral, model.News} {
		vs, err := Compounds(p[c])
		if err != nil {
			return Thresholds{}, fmt.Errorf("derive thresholds: %w", err)
		}
		values = append(values, vs...)
	}
	if len(values) == 0 {
		return Thresholds{}, fmt.Errorf("derive thresholds: neutral and news groups: %w", model.ErrEmptyInput)
	}
	return Thresholds{Lower: floats.Min(values), Upper: floats.Max(values)}, nil
}

// Buckets counts tweets per sentiment band.
type Buckets struct {
	Negative int `json:"negative" yaml:"negative"`
	Neutral  int `json:"neutral" yaml:"neutral"`
	Positive int `json:"positive" yaml:"positive"`
}

// Total is the number of tweets bucketed.
func (b Buckets) Total() int {
	return b.Negative + b.Neutral + b.Positive
}

// Percentages are bucket shares of the group size in [0,100].
type Percentages struct {
	Negative float64 `json:"negative" yaml:"negative"`
	Neutral  float64 `json:"neutral" yaml:"neutral"`
	Positive float64 `json:"positive" yaml:"positive"`
}

// Percentages normalizes counts by the group size. An empty group is all zeros.
func (b Buckets) Percentages() Percentages {
	n := b.Total()
	if n == 0 {
		return Percentages{}
	}
	pct := func(v int) float64 { return float64(v) * 100 / float64(n) }
	return Percentages{Negative: pct(b.Negative), Neutral: pct(b.Neutral), Positive: pct(b.Positive)}
}

// Bucket classifies each tweet: compound below Lower is negative, above
// Upper is positive, anything in between (inclusive) is neutral.
func Bucket(tweets []model.Tweet, th Thresholds) (Buckets, error) {
	if th.Lower > th.Upper {
		return Buckets{}, fmt.Errorf("bucket: lower threshold %v above upper %v", th.Lower, th.Upper)
	}
	var b Buckets
	for i, t := range tweets {
		if err := requireScored(i, t); err != nil {
			return Buckets{}, err
		}
		switch c := t.Polarity.Compound; {
		case c < th.Lower:
			b.Negative++
		case c > th.Upper:
			b.Positive++
		default:
			b.Neutral++
		}
	}
	return b, nil
}

func requireScored(i int, t model.Tweet) error {
	if t.Scored() {
		return nil
	}
	return fmt.Errorf("tweet %d (%s, %q) has no polarity: %w", i, t.Category, truncate(t.Text, 40), model.ErrPrecondition)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func sorted(values []float64) []float64 {
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	return s
}

// median of an already sorted, non-empty slice; even counts average the
// two middle values.
func median(s []float64) float64 {
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
