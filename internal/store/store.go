// Package store persists analysis runs and their scored tweets in SQLite.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/climate-sentiment/internal/model"
)

var (
	// ErrNotFound is returned when no run matches an id or prefix.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguous is returned when an id prefix matches more than one run.
	ErrAmbiguous = errors.New("ambiguous run id")
	// ErrExists is returned when importing a run whose id is already stored.
	ErrExists = errors.New("run already exists")
)

// SaveRunParams holds the outcome of one analysis.
type SaveRunParams struct {
	Source  string
	Policy  string
	Oracle  string
	Charset string
	Rows    int
	Skipped int
	Dropped int
	Tweets  []model.Tweet
}

// ListParams filters runs.
type ListParams struct {
	Source string
	Since  time.Time // zero means no lower bound
	Limit  int
}

// Store defines the run storage interface.
type Store interface {
	// SaveRun stores a run and its tweets atomically.
	SaveRun(ctx context.Context, p SaveRunParams) (*model.Run, error)

	// GetRun returns the run with the given id or unique id prefix.
	// An empty id returns the most recent run.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// ListRuns lists runs, newest first.
	ListRuns(ctx context.Context, p ListParams) ([]model.Run, error)

	// LoadTweets returns a run's tweets in input order.
	LoadTweets(ctx context.Context, runID string) ([]model.Tweet, error)

	// RmRun deletes a run and its tweets.
	RmRun(ctx context.Context, id string) error

	// Close closes the store.
	Close() error
}
