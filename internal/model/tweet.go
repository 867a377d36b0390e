// Package model defines the core tweet, partition and run types.
package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyInput is returned when an operation needs at least one element.
	ErrEmptyInput = errors.New("empty input")

	// ErrPrecondition is returned when tweets reach aggregation without the
	// enrichment it requires.
	ErrPrecondition = errors.New("precondition violated")
)

// Polarity holds the four sentiment scores produced by the oracle.
type Polarity struct {
	Neg      float64 `json:"neg" yaml:"neg"`
	Neu      float64 `json:"neu" yaml:"neu"`
	Pos      float64 `json:"pos" yaml:"pos"`
	Compound float64 `json:"compound" yaml:"compound"`
}

// Validate checks that neg, neu and pos are in [0,1] and compound in [-1,1].
func (p Polarity) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"neg", p.Neg}, {"neu", p.Neu}, {"pos", p.Pos}} {
		if !(f.v >= 0 && f.v <= 1) {
			return fmt.Errorf("%s score %v outside [0,1]", f.name, f.v)
		}
	}
	if !(p.Compound >= -1 && p.Compound <= 1) {
		return fmt.Errorf("compound score %v outside [-1,1]", p.Compound)
	}
	return nil
}

// Tweet is one labeled post. Values are treated as immutable; use
// WithPolarity to attach scores.
type Tweet struct {
	Category Category  `json:"category" yaml:"category"`
	Text     string    `json:"text" yaml:"text"`
	ID       int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Lang     string    `json:"lang,omitempty" yaml:"lang,omitempty"`
	Polarity *Polarity `json:"polarity,omitempty" yaml:"polarity,omitempty"`
}

// Scored reports whether polarity scores are attached.
func (t Tweet) Scored() bool {
	return t.Polarity != nil
}

// WithPolarity returns a copy of t carrying p.
func (t Tweet) WithPolarity(p Polarity) Tweet {
	t.Polarity = &p
	return t
}

// WithLang returns a copy of t tagged with a detected language code.
func (t Tweet) WithLang(code string) Tweet {
	t.Lang = code
	return t
}

// Partition maps every category to its tweets in input order.
type Partition map[Category][]Tweet

// NewPartition returns a partition with all four keys present.
func NewPartition() Partition {
	p := make(Partition, len(Categories))
	for _, c := range Categories {
		p[c] = []Tweet{}
	}
	return p
}

// Len returns the total number of tweets across all categories.
func (p Partition) Len() int {
	n := 0
	for _, ts := range p {
		n += len(ts)
	}
	return n
}

// All flattens the partition in category display order.
func (p Partition) All() []Tweet {
	out := make([]Tweet, 0, p.Len())
	for _, c := range Categories {
		out = append(out, p[c]...)
	}
	return out
}

// Run is one persisted analysis of an input file.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	Policy    string    `json:"policy" yaml:"policy"`
	Oracle    string    `json:"oracle" yaml:"oracle"`
	Charset   string    `json:"charset,omitempty" yaml:"charset,omitempty"`
	Rows      int       `json:"rows" yaml:"rows"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Dropped   int       `json:"dropped" yaml:"dropped"` // filtered as non-English or duplicate
	Tweets    int       `json:"tweets" yaml:"tweets"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
