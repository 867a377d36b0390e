package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// Bin is one histogram interval [Lo, Hi).
type Bin struct {
	Lo    float64 `json:"lo" yaml:"lo"`
	Hi    float64 `json:"hi" yaml:"hi"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram counts values into bins equal-width intervals spanning [lo, hi].
// The last bin is closed so hi itself is counted. Values outside are ignored.
func Histogram(values []float64, bins int, lo, hi float64) ([]Bin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("histogram: bins must be positive, got %d", bins)
	}
	if !(lo < hi) {
		return nil, fmt.Errorf("histogram: invalid range [%v, %v]", lo, hi)
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	edges := append([]float64(nil), dividers...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	var in []float64
	for _, v := range values {
		if v >= lo && v <= hi {
			in = append(in, v)
		}
	}
	counts := make([]float64, bins)
	if len(in) > 0 {
		counts = stat.Histogram(counts, dividers, sorted(in), nil)
	}

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return out, nil
}

// Point is one tweet's (positive, negative) score pair.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// ScatterPoints plots positive score on x against negative score on y.
func ScatterPoints(tweets []model.Tweet) ([]Point, error) {
	out := make([]Point, len(tweets))
	for i, t := range tweets {
		if err := requireScored(i, t); err != nil {
			return nil, err
		}
		out[i] = Point{X: t.Polarity.Pos, Y: t.Polarity.Neg}
	}
	return out, nil
}

// BoxStats are the five numbers of a box plot.
type BoxStats struct {
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
}

// Box computes quartiles as the medians of the lower and upper halves,
// excluding the overall median for odd counts.
func Box(values []float64) (BoxStats, error) {
	if len(values) == 0 {
		return BoxStats{}, fmt.Errorf("box: %w", model.ErrEmptyInput)
	}
	s := sorted(values)
	n := len(s)
	b := BoxStats{Min: s[0], Median: median(s), Max: s[n-1]}
	if n == 1 {
		b.Q1, b.Q3 = s[0], s[0]
		return b, nil
	}
	half := n / 2
	b.Q1 = median(s[:half])
	b.Q3 = median(s[n-half:])
	return b, nil
}

// OpinionCount is the number of tweets in one category.
type OpinionCount struct {
	Category model.Category `json:"category" yaml:"category"`
	Count    int            `json:"count" yaml:"count"`
}

// OpinionCounts lists tweets per category in display order.
func OpinionCounts(p model.Partition) []OpinionCount {
	out := make([]OpinionCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, OpinionCount{Category: c, Count: len(p[c])})
	}
	return out
}

// Frequency is one category's bucket counts and shares for a grouped bar chart.
type Frequency struct {
	Category    model.Category `json:"category" yaml:"category"`
	Buckets     Buckets        `json:"buckets" yaml:"buckets"`
	Percentages Percentages    `json:"percentages" yaml:"percentages"`
}

// CompareFrequencies buckets every category with thresholds derived from
// the neutral and news groups.
func CompareFrequencies(p model.Partition) (Thresholds, []Frequency, error) {
	th, err := DeriveThresholds(p)
	if err != nil {
		return Thresholds{}, nil, err
	}
	out := make([]Frequency, 0, len(model.Categories))
	for _, c := range model.Categories {
		b, err := Bucket(p[c], th)
		if err != nil {
			return Thresholds{}, nil, fmt.Errorf("bucket %s: %w", c, err)
		}
		out = append(out, Frequency{Category: c, Buckets: b, Percentages: b.Percentages()})
	}
	return th, out, nil
}
