package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/climate-sentiment/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func scoredTweet(c model.Category, text string, compound float64) model.Tweet {
	return model.Tweet{Category: c, Text: text}.WithPolarity(model.Polarity{Neg: 0.1, Neu: 0.6, Pos: 0.3, Compound: compound})
}

func sampleParams() SaveRunParams {
	return SaveRunParams{
		Source:  "tweets.csv",
		Policy:  "skip",
		Oracle:  "vader",
		Charset: "UTF-8",
		Rows:    5,
		Skipped: 1,
		Dropped: 1,
		Tweets: []model.Tweet{
			scoredTweet(model.Supports, "Solar is the future", 0.6249),
			{Category: model.News, Text: "Report due Friday", ID: 793124211518832641, Lang: "en"},
			scoredTweet(model.Opposes, "Climate hoax again", -0.4404),
		},
	}
}

func TestSaveRunAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.SaveRun(ctx, sampleParams())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if run.ID == "" || run.Tweets != 3 {
		t.Fatalf("unexpected run %+v", run)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Source != "tweets.csv" || got.Skipped != 1 || got.Dropped != 1 || got.Charset != "UTF-8" {
		t.Errorf("unexpected stored run %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("created_at changed: %v vs %v", got.CreatedAt, run.CreatedAt)
	}

	tweets, err := s.LoadTweets(ctx, run.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tweets) != 3 {
		t.Fatalf("expected 3 tweets, got %d", len(tweets))
	}
	if tweets[0].Polarity == nil || *tweets[0].Polarity != (model.Polarity{Neg: 0.1, Neu: 0.6, Pos: 0.3, Compound: 0.6249}) {
		t.Errorf("polarity not preserved: %+v", tweets[0].Polarity)
	}
	if tweets[1].Scored() || tweets[1].ID != 793124211518832641 || tweets[1].Lang != "en" {
		t.Errorf("unexpected second tweet %+v", tweets[1])
	}
	if tweets[2].Category != model.Opposes {
		t.Errorf("order or category lost: %+v", tweets[2])
	}
}

func TestGetRun_LatestAndPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.GetRun(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty store, got %v", err)
	}

	first, _ := s.SaveRun(ctx, sampleParams())
	second, _ := s.SaveRun(ctx, sampleParams())

	latest, err := s.GetRun(ctx, "")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("expected latest %s, got %s", second.ID, latest.ID)
	}

	byPrefix, err := s.GetRun(ctx, first.ID[:20])
	if err != nil && !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("prefix lookup: %v", err)
	}
	if err == nil && byPrefix.ID != first.ID {
		t.Errorf("prefix resolved to %s, want %s", byPrefix.ID, first.ID)
	}

	if _, err := s.GetRun(ctx, first.ID[:2]); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous for a shared prefix, got %v", err)
	}
	if _, err := s.GetRun(ctx, "ZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := sampleParams()
	a, _ := s.SaveRun(ctx, p)
	p.Source = "other.csv"
	b, _ := s.SaveRun(ctx, p)

	runs, err := s.ListRuns(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != b.ID || runs[1].ID != a.ID {
		t.Fatalf("expected newest first, got %+v", runs)
	}

	runs, _ = s.ListRuns(ctx, ListParams{Source: "other.csv"})
	if len(runs) != 1 || runs[0].ID != b.ID {
		t.Errorf("source filter failed: %+v", runs)
	}

	runs, _ = s.ListRuns(ctx, ListParams{Since: time.Now().Add(time.Hour)})
	if len(runs) != 0 {
		t.Errorf("since filter failed: %+v", runs)
	}

	runs, _ = s.ListRuns(ctx, ListParams{Limit: 1})
	if len(runs) != 1 {
		t.Errorf("limit failed: %d", len(runs))
	}
}

func TestRmRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, _ := s.SaveRun(ctx, sampleParams())
	if err := s.RmRun(ctx, run.ID); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := s.GetRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected run to be gone, got %v", err)
	}
	tweets, err := s.LoadTweets(ctx, run.ID)
	if err != nil || len(tweets) != 0 {
		t.Errorf("expected tweets to be gone, got %d (%v)", len(tweets), err)
	}
	if err := s.RmRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second rm, got %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.SaveRun(ctx, sampleParams())

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Runs != 1 || st.Tweets != 3 || st.Unscored != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
	if len(st.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %+v", st.Categories)
	}
	if st.Categories[0].Category != model.Opposes || st.Categories[0].MeanCompound == nil {
		t.Errorf("unexpected first category %+v", st.Categories[0])
	}
	if st.Categories[2].Category != model.News || st.Categories[2].MeanCompound != nil {
		t.Errorf("unscored category should have no mean: %+v", st.Categories[2])
	}
	if info, _ := os.Stat(dbPath); info == nil || st.DBSizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
}
