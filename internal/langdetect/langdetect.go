// Package langdetect tags tweets with their language so non-English posts
// can be dropped before lexicon scoring.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// DefaultLanguages are the candidates considered when none are given.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
}

// Detector wraps a lingua detector restricted to a candidate set.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over langs, or DefaultLanguages when empty.
func New(langs ...lingua.Language) *Detector {
	if len(langs) < 2 {
		langs = DefaultLanguages
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build(),
	}
}

// Code returns the lower-case ISO 639-1 code of text, or "" when the
// language cannot be determined reliably.
func (d *Detector) Code(text string) string {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// Tag returns copies of tweets carrying their detected language.
func (d *Detector) Tag(tweets []model.Tweet) []model.Tweet {
	out := make([]model.Tweet, len(tweets))
	for i, t := range tweets {
		out[i] = t.WithLang(d.Code(t.Text))
	}
	return out
}

// KeepEnglish tags tweets and drops those detected as another language.
// Undetermined tweets are kept; short posts are often ambiguous.
func (d *Detector) KeepEnglish(tweets []model.Tweet) (kept []model.Tweet, dropped int) {
	kept = make([]model.Tweet, 0, len(tweets))
	for _, t := range d.Tag(tweets) {
		if t.Lang != "" && t.Lang != "en" {
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	return kept, dropped
}
