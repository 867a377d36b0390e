// Package normalize cleans raw tweet text before scoring.
package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	// Placeholder is the token the dataset uses in place of an apostrophe.
	Placeholder = "$q$"
	ampEntity   = "&amp;"
)

// Options configures Normalize.
type Options struct {
	// StripNewlines removes embedded line breaks so each tweet is one line.
	StripNewlines bool
}

// DefaultOptions returns the options used by ingestion.
func DefaultOptions() Options {
	return Options{StripNewlines: true}
}

// Normalize repairs mis-decoded text, replaces the apostrophe placeholder,
// unescapes &amp; and optionally strips newlines. The ordered pass is
// repeated until the output is stable, so Normalize is idempotent.
func Normalize(raw string, opts Options) string {
	s := raw
	for {
		next := pass(s, opts)
		if next == s {
			return s
		}
		// Every pass that changes s removes at least one rune, so this ends.
		s = next
	}
}

func pass(s string, opts Options) string {
	s = RepairEncoding(s)
	s = strings.ReplaceAll(s, Placeholder, "'")
	for strings.Contains(s, ampEntity) {
		s = strings.ReplaceAll(s, ampEntity, "&")
	}
	if opts.StripNewlines {
		s = strings.ReplaceAll(s, "\r", "")
		s = strings.ReplaceAll(s, "\n", "")
	}
	return s
}

// RepairEncoding undoes UTF-8 text that was decoded as Windows-1252 one or
// more times. Bytes that are not valid UTF-8 to begin with are decoded as
// Windows-1252. Failures are absorbed: the last good value is returned.
func RepairEncoding(s string) string {
	if !utf8.ValidString(s) {
		decoded, err := charmap.Windows1252.NewDecoder().String(s)
		if err != nil {
			return strings.ToValidUTF8(s, "�")
		}
		s = decoded
	}

	for {
		next, ok := undoMisdecode(s)
		if !ok || next == s {
			return s
		}
		s = next
	}
}

// undoMisdecode encodes s as Windows-1252 and reads the bytes back as UTF-8.
func undoMisdecode(s string) (string, bool) {
	b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return "", false
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// Denoise drops tokens that start with http, @, # or RT and rejoins the rest
// with single spaces. It is a separate heuristic pass for sentiment scoring.
func Denoise(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if isNoise(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func isNoise(token string) bool {
	for _, prefix := range []string{"http", "@", "#", "RT"} {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}
