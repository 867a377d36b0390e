// Package ingest reads labeled tweets from a delimited text file.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/rcliao/climate-sentiment/internal/logging"
	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/normalize"
)

// Policy decides what happens to a malformed row.
type Policy string

const (
	// Abort stops ingestion at the first malformed row and returns no tweets.
	Abort Policy = "abort"
	// Skip logs the malformed row and continues with the next one.
	Skip Policy = "skip"
)

// ParsePolicy validates a policy name. Empty means Abort.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Abort:
		return Abort, nil
	case Skip:
		return Skip, nil
	}
	return "", fmt.Errorf("invalid malformed-row policy %q (valid: abort, skip)", s)
}

// ErrMalformedRecord matches every *MalformedRecordError via errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a data row that could not become a tweet.
type MalformedRecordError struct {
	Row    int      // 1-based data row index, header excluded
	Raw    []string // fields as read
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s (raw: %q)", msg, e.Raw)
}

func (e *MalformedRecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedRecord}
	}
	return []error{ErrMalformedRecord, e.Err}
}

// Options configures ingestion.
type Options struct {
	OnMalformed Policy
	Normalize   normalize.Options
	// Denoise additionally drops links, mentions, hashtags and retweet markers.
	Denoise bool
	Logger  logrus.FieldLogger
}

// DefaultOptions aborts on malformed rows and strips newlines.
func DefaultOptions() Options {
	return Options{
		OnMalformed: Abort,
		Normalize:   normalize.DefaultOptions(),
	}
}

// Result is the outcome of one ingestion.
type Result struct {
	Tweets  []model.Tweet
	Rows    int // data rows read
	Skipped []*MalformedRecordError
	// Charset is the best guess for the input encoding, empty if unknown.
	Charset string
	// Transcoded is set when the whole input was decoded as Windows-1252.
	Transcoded bool
}

const sniffSize = 64 << 10

// ReadFile opens path and ingests it.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read ingests CSV data from r. The first row is a header.
func Read(r io.Reader, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	policy, err := ParsePolicy(string(opts.OnMalformed))
	if err != nil {
		return nil, err
	}

	res := &Result{Tweets: []model.Tweet{}}

	br := bufio.NewReaderSize(r, sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var src io.Reader = br
	if len(head) > 0 {
		if guess, err := chardet.NewTextDetector().DetectBest(head); err == nil {
			res.Charset = guess.Charset
		}
		if !validPrefix(head, err == nil || errors.Is(err, bufio.ErrBufferFull)) {
			src = charmap.Windows1252.NewDecoder().Reader(br)
			res.Transcoded = true
		}
	}
	log.WithFields(logrus.Fields{
		"charset":    res.Charset,
		"transcoded": res.Transcoded,
	}).Debug("sniffed input encoding")

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return res, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		res.Rows++
		row := res.Rows

		var tweet model.Tweet
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("read row %d: %w", row, err)
			}
			err = &MalformedRecordError{Row: row, Raw: fields, Reason: "unreadable row", Err: err}
		} else {
			tweet, err = parseRow(row, fields, opts)
		}

		if err != nil {
			var mr *MalformedRecordError
			if policy == Abort || !errors.As(err, &mr) {
				return nil, err
			}
			log.WithFields(logrus.Fields{
				"row": mr.Row,
				"raw": strings.Join(mr.Raw, ","),
			}).WithError(mr).Warn("skipping malformed row")
			res.Skipped = append(res.Skipped, mr)
			continue
		}
		res.Tweets = append(res.Tweets, tweet)
	}

	log.WithFields(logrus.Fields{
		"rows":    res.Rows,
		"tweets":  len(res.Tweets),
		"skipped": len(res.Skipped),
	}).Debug("ingestion complete")

	return res, nil
}

func parseRow(row int, fields []string, opts Options) (model.Tweet, error) {
	malformed := func(reason string, err error) error {
		return &MalformedRecordError{Row: row, Raw: fields, Reason: reason, Err: err}
	}

	if len(fields) < 2 {
		return model.Tweet{}, malformed(fmt.Sprintf("expected at least 2 columns, got %d", len(fields)), nil)
	}

	category, err := model.ParseCategory(fields[0])
	if err != nil {
		return model.Tweet{}, malformed("bad category", err)
	}

	text := normalize.Normalize(fields[1], opts.Normalize)
	if opts.Denoise {
		text = normalize.Denoise(text)
	}
	if strings.TrimSpace(text) == "" {
		return model.Tweet{}, malformed("empty text after normalization", nil)
	}

	tweet := model.Tweet{Category: category, Text: text}

	if len(fields) > 2 {
		raw := strings.TrimSpace(fields[2])
		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return model.Tweet{}, malformed("bad identifier", err)
			}
			if id <= 0 {
				return model.Tweet{}, malformed(fmt.Sprintf("identifier %d is not positive", id), nil)
			}
			tweet.ID = id
		}
	}

	return tweet, nil
}

// validPrefix reports whether b is valid UTF-8. When truncated is set the
// last rune may have been cut off by the buffer.
func validPrefix(b []byte, truncated bool) bool {
	if truncated {
		for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
			if utf8.RuneStart(b[len(b)-i]) {
				if !utf8.FullRune(b[len(b)-i:]) {
					b = b[:len(b)-i]
				}
				break
			}
		}
	}
	return utf8.Valid(b)
}
