// Package partition groups tweets by opinion category.
package partition

import (
	"fmt"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// ByCategory splits tweets into a partition holding all four categories.
// Relative input order is kept inside each group.
func ByCategory(tweets []model.Tweet) (model.Partition, error) {
	if len(tweets) == 0 {
		return nil, fmt.Errorf("partition tweets: %w", model.ErrEmptyInput)
	}

	p := model.NewPartition()
	for i, t := range tweets {
		if !t.Category.Valid() {
			return nil, fmt.Errorf("partition tweets: tweet %d has invalid category %d", i, int8(t.Category))
		}
		p[t.Category] = append(p[t.Category], t)
	}
	return p, nil
}
