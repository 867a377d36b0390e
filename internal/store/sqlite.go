package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID returns a ULID; ids sort in creation order within this process.
func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		policy      TEXT NOT NULL,
		oracle      TEXT NOT NULL,
		charset     TEXT,
		rows        INTEGER NOT NULL DEFAULT 0,
		skipped     INTEGER NOT NULL DEFAULT 0,
		dropped     INTEGER NOT NULL DEFAULT 0,
		tweets      INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);

	CREATE TABLE IF NOT EXISTS tweets (
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		category    INTEGER NOT NULL CHECK (category BETWEEN -1 AND 2),
		text        TEXT NOT NULL,
		source_id   INTEGER,
		lang        TEXT,
		neg         REAL,
		neu         REAL,
		pos         REAL,
		compound    REAL,
		PRIMARY KEY (run_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_tweets_category ON tweets(run_id, category);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveRun(ctx context.Context, p SaveRunParams) (*model.Run, error) {
	now := nowUTC()
	run := &model.Run{
		ID:        s.newID(now),
		Source:    p.Source,
		Policy:    p.Policy,
		Oracle:    p.Oracle,
		Charset:   p.Charset,
		Rows:      p.Rows,
		Skipped:   p.Skipped,
		Dropped:   p.Dropped,
		Tweets:    len(p.Tweets),
		CreatedAt: now,
	}
	if err := s.insertRun(ctx, run, p.Tweets); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) insertRun(ctx context.Context, run *model.Run, tweets []model.Tweet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, policy, oracle, charset, rows, skipped, dropped, tweets, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Policy, run.Oracle, nullString(run.Charset),
		run.Rows, run.Skipped, run.Dropped, len(tweets), run.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tweets (run_id, seq, category, text, source_id, lang, neg, neu, pos, compound)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tweets {
		var neg, neu, pos, compound sql.NullFloat64
		if t.Polarity != nil {
			neg = sql.NullFloat64{Float64: t.Polarity.Neg, Valid: true}
			neu = sql.NullFloat64{Float64: t.Polarity.Neu, Valid: true}
			pos = sql.NullFloat64{Float64: t.Polarity.Pos, Valid: true}
			compound = sql.NullFloat64{Float64: t.Polarity.Compound, Valid: true}
		}
		var sourceID sql.NullInt64
		if t.ID > 0 {
			sourceID = sql.NullInt64{Int64: t.ID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, int(t.Category), t.Text, sourceID,
			nullString(t.Lang), neg, neu, pos, compound); err != nil {
			return fmt.Errorf("insert tweet %d: %w", i, err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, source, policy, oracle, charset, rows, skipped, dropped, tweets, created_at`

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var rows *sql.Rows
	var err error
	if id == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ORDER BY id LIMIT 2`,
			strings.ToUpper(id)+"%")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(runs) == 0 && id == "":
		return nil, fmt.Errorf("no runs stored: %w", ErrNotFound)
	case len(runs) == 0:
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	case len(runs) > 1 && !strings.EqualFold(runs[0].ID, id):
		return nil, fmt.Errorf("%s: %w", id, ErrAmbiguous)
	}
	return &runs[0], nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, p ListParams) ([]model.Run, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.Source != "" {
		where = append(where, "source = ?")
		args = append(args, p.Source)
	}
	if !p.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, p.Since.UTC().Format(timeLayout))
	}

	query := fmt.Sprintf(`SELECT %s FROM runs WHERE %s ORDER BY created_at DESC, id DESC LIMIT ?`,
		runColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) LoadTweets(ctx context.Context, runID string) ([]model.Tweet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, text, source_id, lang, neg, neu, pos, compound
		 FROM tweets WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tweets := []model.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (s *SQLiteStore) RmRun(ctx context.Context, id string) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (model.Run, error) {
	var r model.Run
	var charset sql.NullString
	var createdAt string

	err := row.Scan(&r.ID, &r.Source, &r.Policy, &r.Oracle, &charset,
		&r.Rows, &r.Skipped, &r.Dropped, &r.Tweets, &createdAt)
	if err != nil {
		return r, err
	}
	r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if charset.Valid {
		r.Charset = charset.String
	}
	return r, nil
}

func scanTweet(row scanner) (model.Tweet, error) {
	var t model.Tweet
	var category int
	var sourceID sql.NullInt64
	var lang sql.NullString
	var neg, neu, pos, compound sql.NullFloat64

	if err := row.Scan(&category, &t.Text, &sourceID, &lang, &neg, &neu, &pos, &compound); err != nil {
		return t, err
	}
	t.Category = model.Category(category)
	if sourceID.Valid {
		t.ID = sourceID.Int64
	}
	if lang.Valid {
		t.Lang = lang.String
	}
	if compound.Valid {
		t = t.WithPolarity(model.Polarity{
			Neg:      neg.Float64,
			Neu:      neu.Float64,
			Pos:      pos.Float64,
			Compound: compound.Float64,
		})
	}
	return t, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
