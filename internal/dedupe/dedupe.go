// Package dedupe finds near-duplicate tweets, typically retweets that only
// differ by a link or a mention.
package dedupe

import (
	"strings"

	"github.com/xrash/smetrics"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/normalize"
)

const (
	boostThreshold = 0.7
	prefixSize     = 4
	// blockSize is the key length used to limit pairwise comparisons.
	blockSize = 3
)

// Pair is a later tweet that duplicates an earlier one.
type Pair struct {
	Original  int     `json:"original"`
	Duplicate int     `json:"duplicate"`
	Score     float64 `json:"score"`
}

// Key is the comparison form of a tweet: denoised and lower-cased.
func Key(text string) string {
	return strings.ToLower(normalize.Denoise(text))
}

// similarity is the Jaro-Winkler similarity of two keys in [0,1].
func similarity(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, boostThreshold, prefixSize)
}

// Find reports every tweet whose similarity to an earlier tweet of the same
// category is at least threshold. Each duplicate is paired with the first
// earlier match. Only tweets sharing a short key prefix are compared.
func Find(tweets []model.Tweet, threshold float64) []Pair {
	type entry struct {
		idx int
		key string
	}
	type block struct {
		category model.Category
		prefix   string
	}

	blocks := make(map[block][]entry)
	var pairs []Pair
	for i, t := range tweets {
		key := Key(t.Text)
		b := block{category: t.Category, prefix: prefix(key)}
		dup := false
		for _, e := range blocks[b] {
			if s := similarity(e.key, key); s >= threshold {
				pairs = append(pairs, Pair{Original: e.idx, Duplicate: i, Score: s})
				dup = true
				break
			}
		}
		if !dup {
			blocks[b] = append(blocks[b], entry{idx: i, key: key})
		}
	}
	return pairs
}

// Drop returns tweets without the duplicates reported by Find, in order.
func Drop(tweets []model.Tweet, threshold float64) ([]model.Tweet, int) {
	pairs := Find(tweets, threshold)
	if len(pairs) == 0 {
		return tweets, 0
	}
	skip := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		skip[p.Duplicate] = true
	}
	out := make([]model.Tweet, 0, len(tweets)-len(skip))
	for i, t := range tweets {
		if !skip[i] {
			out = append(out, t)
		}
	}
	return out, len(skip)
}

func prefix(key string) string {
	r := []rune(key)
	if len(r) > blockSize {
		r = r[:blockSize]
	}
	return string(r)
}
