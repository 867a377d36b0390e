package store

import (
	"context"
	"database/sql"
	"os"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string          `json:"db_path" yaml:"db_path"`
	DBSizeBytes int64           `json:"db_size_bytes" yaml:"db_size_bytes"`
	Runs        int             `json:"runs" yaml:"runs"`
	Tweets      int             `json:"tweets" yaml:"tweets"`
	Unscored    int             `json:"unscored" yaml:"unscored"`
	Categories  []CategoryStats `json:"categories" yaml:"categories"`
}

// CategoryStats holds per-category counts across all runs.
type CategoryStats struct {
	Category     model.Category `json:"category" yaml:"category"`
	Count        int            `json:"count" yaml:"count"`
	MeanCompound *float64       `json:"mean_compound,omitempty" yaml:"mean_compound,omitempty"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.Runs)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&st.Tweets)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tweets WHERE compound IS NULL`).Scan(&st.Unscored)

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS cnt, AVG(compound)
		FROM tweets
		GROUP BY category ORDER BY category`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStats
		var category int
		var mean sql.NullFloat64
		if err := rows.Scan(&category, &cs.Count, &mean); err != nil {
			return st, err
		}
		cs.Category = model.Category(category)
		if mean.Valid {
			cs.MeanCompound = &mean.Float64
		}
		st.Categories = append(st.Categories, cs)
	}

	return st, rows.Err()
}
