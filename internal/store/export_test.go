package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rcliao/climate-sentiment/internal/model"
)

func TestExportImportRun(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	dst := newTestStore(t)

	run, err := src.SaveRun(ctx, sampleParams())
	if err != nil {
		t.Fatal(err)
	}

	exp, err := src.ExportRun(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exp.Run.ID != run.ID || len(exp.Tweets) != 3 {
		t.Fatalf("unexpected export %+v", exp)
	}

	imported, err := dst.ImportRun(ctx, exp)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.ID != run.ID || !imported.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("import should keep id and timestamp: %+v", imported)
	}

	tweets, _ := dst.LoadTweets(ctx, run.ID)
	if len(tweets) != 3 || *tweets[2].Polarity != *exp.Tweets[2].Polarity {
		t.Errorf("tweets not round-tripped: %+v", tweets)
	}

	if _, err := dst.ImportRun(ctx, exp); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists on re-import, got %v", err)
	}
}

func TestImportRun_FreshIDAndValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.ImportRun(ctx, &Export{
		Run:    model.Run{Source: "manual", Policy: "abort", Oracle: "http"},
		Tweets: []model.Tweet{{Category: model.News, Text: "x"}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if run.ID == "" || run.Tweets != 1 || run.CreatedAt.IsZero() {
		t.Errorf("unexpected run %+v", run)
	}

	bad := &Export{Tweets: []model.Tweet{{Category: model.Category(9), Text: "x"}}}
	if _, err := s.ImportRun(ctx, bad); err == nil {
		t.Error("expected error for invalid category")
	}
	bad = &Export{Tweets: []model.Tweet{model.Tweet{Category: model.News, Text: "x"}.WithPolarity(model.Polarity{Pos: 2})}}
	if _, err := s.ImportRun(ctx, bad); err == nil {
		t.Error("expected error for out-of-range polarity")
	}
}

func TestImportRun_MatchesIDExactly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	existing, err := s.SaveRun(ctx, sampleParams())
	if err != nil {
		t.Fatal(err)
	}
	tweets := []model.Tweet{{Category: model.News, Text: "x"}}

	short := &Export{Run: model.Run{ID: existing.ID[:4]}, Tweets: tweets}
	if _, err := s.ImportRun(ctx, short); err == nil || errors.Is(err, ErrExists) {
		t.Errorf("expected an invalid id error for %q, got %v", short.Run.ID, err)
	}

	// Same timestamp part and most of the entropy, different run.
	last := byte('0')
	if existing.ID[len(existing.ID)-1] == '0' {
		last = '1'
	}
	sibling := existing.ID[:len(existing.ID)-1] + string(last)
	run, err := s.ImportRun(ctx, &Export{Run: model.Run{ID: sibling}, Tweets: tweets})
	if err != nil {
		t.Fatalf("import %s: %v", sibling, err)
	}
	if run.ID != sibling {
		t.Errorf("expected id %s, got %s", sibling, run.ID)
	}

	lower := &Export{Run: model.Run{ID: strings.ToLower(existing.ID)}, Tweets: tweets}
	if _, err := s.ImportRun(ctx, lower); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists for a lower-cased stored id, got %v", err)
	}
}
