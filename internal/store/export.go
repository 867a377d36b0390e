package store

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// Export is a portable copy of one run.
type Export struct {
	Run    model.Run     `json:"run" yaml:"run"`
	Tweets []model.Tweet `json:"tweets" yaml:"tweets"`
}

// ExportRun returns a run and its tweets. An empty id exports the latest run.
func (s *SQLiteStore) ExportRun(ctx context.Context, id string) (*Export, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	tweets, err := s.LoadTweets(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &Export{Run: *run, Tweets: tweets}, nil
}

// ImportRun stores an exported run under its original id and timestamp.
// A missing id gets a fresh one; a present id must be a ULID that is not
// stored yet.
func (s *SQLiteStore) ImportRun(ctx context.Context, e *Export) (*model.Run, error) {
	run := e.Run
	for i, t := range e.Tweets {
		if !t.Category.Valid() {
			return nil, fmt.Errorf("tweet %d: invalid category %d", i, int8(t.Category))
		}
		if t.Polarity != nil {
			if err := t.Polarity.Validate(); err != nil {
				return nil, fmt.Errorf("tweet %d: %w", i, err)
			}
		}
	}

	if run.ID == "" {
		if run.CreatedAt.IsZero() {
			run.CreatedAt = nowUTC()
		}
		run.ID = s.newID(run.CreatedAt)
	} else {
		id, err := ulid.Parse(run.ID)
		if err != nil {
			return nil, fmt.Errorf("run id %q: %w", run.ID, err)
		}
		run.ID = id.String()

		var n int
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&n)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%s: %w", run.ID, ErrExists)
		}
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = nowUTC()
	}
	run.Tweets = len(e.Tweets)

	if err := s.insertRun(ctx, &run, e.Tweets); err != nil {
		return nil, err
	}
	return &run, nil
}
