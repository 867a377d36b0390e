package partition

import (
	"errors"
	"testing"

	"github.com/rcliao/climate-sentiment/internal/model"
)

func TestByCategory(t *testing.T) {
	tweets := []model.Tweet{
		{Category: model.Supports, Text: "a"},
		{Category: model.News, Text: "b"},
		{Category: model.Supports, Text: "c"},
		{Category: model.Opposes, Text: "d"},
		{Category: model.Supports, Text: "e"},
	}

	p, err := ByCategory(tweets)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(p) != 4 {
		t.Fatalf("expected 4 keys, got %d", len(p))
	}
	if p.Len() != len(tweets) {
		t.Errorf("expected %d tweets across groups, got %d", len(tweets), p.Len())
	}
	if len(p[model.Neutral]) != 0 || p[model.Neutral] == nil {
		t.Errorf("neutral group should be present and empty, got %v", p[model.Neutral])
	}

	var order string
	for _, tw := range p[model.Supports] {
		order += tw.Text
	}
	if order != "ace" {
		t.Errorf("supports order = %q, want %q", order, "ace")
	}

	for c, group := range p {
		for _, tw := range group {
			if tw.Category != c {
				t.Errorf("tweet %q filed under %v", tw.Text, c)
			}
		}
	}
}

func TestByCategory_Empty(t *testing.T) {
	_, err := ByCategory(nil)
	if !errors.Is(err, model.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestByCategory_InvalidCategory(t *testing.T) {
	_, err := ByCategory([]model.Tweet{{Category: model.Category(5), Text: "x"}})
	if err == nil {
		t.Error("expected error for invalid category")
	}
}
