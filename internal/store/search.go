package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// SearchParams holds parameters for searching tweets.
type SearchParams struct {
	RunID    string // empty means every run
	Query    string
	Category *model.Category
	Limit    int
}

// SearchResult is a matching tweet and where it is stored.
type SearchResult struct {
	RunID       string `json:"run_id" yaml:"run_id"`
	Seq         int    `json:"seq" yaml:"seq"`
	model.Tweet `yaml:",inline"`
}

// Search finds tweets whose text contains the query, case-insensitively.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"t.text LIKE ?"}
	args := []interface{}{"%" + p.Query + "%"}

	if p.RunID != "" {
		where = append(where, "t.run_id = ?")
		args = append(args, p.RunID)
	}
	if p.Category != nil {
		where = append(where, "t.category = ?")
		args = append(args, int(*p.Category))
	}

	query := fmt.Sprintf(`
		SELECT t.run_id, t.seq, t.category, t.text, t.source_id, t.lang, t.neg, t.neu, t.pos, t.compound
		FROM tweets t
		INNER JOIN runs r ON r.id = t.run_id
		WHERE %s
		ORDER BY r.created_at DESC, t.seq
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var runID string
		var seq int
		t, err := scanTweet(prefixScanner{rows, []interface{}{&runID, &seq}})
		if err != nil {
			return nil, err
		}
		r.RunID, r.Seq, r.Tweet = runID, seq, t
		results = append(results, r)
	}

	return results, rows.Err()
}

// prefixScanner scans leading columns into extra before the tweet columns.
type prefixScanner struct {
	row   scanner
	extra []interface{}
}

func (p prefixScanner) Scan(dest ...interface{}) error {
	return p.row.Scan(append(append([]interface{}{}, p.extra...), dest...)...)
}
