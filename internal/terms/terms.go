// Package terms finds the most frequent content words in a set of tweets.
package terms

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bbalet/stopwords"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/normalize"
)

// Term is a word and the number of times it occurs.
type Term struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Words returns the content words of text: links, mentions, hashtags and
// retweet markers are dropped first, then stop words and punctuation.
func Words(text, lang string) []string {
	if lang == "" {
		lang = "en"
	}
	cleaned := stopwords.CleanString(normalize.Denoise(text), lang, true)

	var out []string
	for _, w := range strings.Fields(strings.ToLower(cleaned)) {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Top returns up to n terms ordered by count, then alphabetically.
func Top(tweets []model.Tweet, n int) []Term {
	counts := make(map[string]int)
	for _, t := range tweets {
		for _, w := range Words(t.Text, t.Lang) {
			counts[w]++
		}
	}

	out := make([]Term, 0, len(counts))
	for w, c := range counts {
		out = append(out, Term{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
