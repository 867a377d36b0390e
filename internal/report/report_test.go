package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/climate-sentiment/internal/model"
	"github.com/rcliao/climate-sentiment/internal/stats"
)

func tweet(c model.Category, text string, pos, neg, compound float64) model.Tweet {
	return model.Tweet{Category: c, Text: text}.WithPolarity(model.Polarity{Neg: neg, Neu: 1 - pos - neg, Pos: pos, Compound: compound})
}

func samplePartition() model.Partition {
	p := model.NewPartition()
	p[model.Neutral] = []model.Tweet{
		tweet(model.Neutral, "not sure about the weather", 0, 0, -0.1),
		tweet(model.Neutral, "weather report later", 0.1, 0, 0.2),
	}
	p[model.News] = []model.Tweet{tweet(model.News, "Study finds oceans warming", 0, 0, 0)}
	p[model.Supports] = []model.Tweet{
		tweet(model.Supports, "Renewable energy is great", 0.5, 0, 0.6),
		tweet(model.Supports, "Climate action matters", 0.3, 0, 0.4),
		tweet(model.Supports, "Worried about climate", 0, 0.4, -0.5),
	}
	return p
}

func TestBuild(t *testing.T) {
	run := &model.Run{ID: "01ABC", Source: "tweets.csv", Oracle: "vader", CreatedAt: time.Now()}
	r, err := Build(run, samplePartition(), Options{Bins: 4, TopTerms: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Total != 6 || r.RunID != "01ABC" {
		t.Errorf("unexpected header %+v", r)
	}
	if r.Thresholds == nil || r.Thresholds.Lower != -0.1 || r.Thresholds.Upper != 0.2 {
		t.Fatalf("unexpected thresholds %+v", r.Thresholds)
	}
	if len(r.Categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(r.Categories))
	}

	opposes := r.Categories[0]
	if opposes.Category != model.Opposes || opposes.Count != 0 || opposes.Summary != nil {
		t.Errorf("opposes should be empty: %+v", opposes)
	}

	supports := r.Categories[2]
	if supports.Summary == nil || supports.Summary.Count != 3 {
		t.Fatalf("supports summary missing: %+v", supports)
	}
	if *supports.Buckets != (stats.Buckets{Negative: 1, Positive: 2}) {
		t.Errorf("unexpected supports buckets %+v", supports.Buckets)
	}
	if len(supports.Histogram) != 4 {
		t.Errorf("expected 4 bins, got %d", len(supports.Histogram))
	}
	if len(supports.TopTerms) == 0 || supports.TopTerms[0].Word != "climate" {
		t.Errorf("unexpected top terms %+v", supports.TopTerms)
	}
}

func TestBuild_NoReferenceGroups(t *testing.T) {
	p := model.NewPartition()
	p[model.Supports] = []model.Tweet{tweet(model.Supports, "yes", 0.5, 0, 0.5)}
	r, err := Build(nil, p, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Thresholds != nil || r.Categories[2].Buckets != nil {
		t.Error("buckets need thresholds from the neutral or news group")
	}
	if r.Categories[2].Summary == nil {
		t.Error("summary should still be computed")
	}
}

func TestBuild_Unscored(t *testing.T) {
	p := model.NewPartition()
	p[model.News] = []model.Tweet{{Category: model.News, Text: "raw"}}
	if _, err := Build(nil, p, Options{}); !errors.Is(err, model.ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}
}

func TestWrite_Formats(t *testing.T) {
	r, err := Build(nil, samplePartition(), Options{Bins: 2})
	if err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := Write(&js, FormatJSON, r); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := decoded["created_at"]; ok {
		t.Error("zero created_at should be omitted")
	}
	if !strings.Contains(js.String(), `"category": "supports"`) {
		t.Errorf("categories should be encoded by name:\n%s", js.String())
	}

	var ys bytes.Buffer
	if err := Write(&ys, FormatYAML, r); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var ydecoded map[string]any
	if err := yaml.Unmarshal(ys.Bytes(), &ydecoded); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if ydecoded["total"] != 6 {
		t.Errorf("unexpected yaml total %v", ydecoded["total"])
	}

	var txt bytes.Buffer
	if err := Write(&txt, FormatText, r); err != nil {
		t.Fatalf("text: %v", err)
	}
	for _, want := range []string{"CATEGORY", "supports", "neutral band: [-0.1000, 0.2000]"} {
		if !strings.Contains(txt.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, txt.String())
		}
	}

	if err := Write(&txt, "xml", r); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestBuildChart(t *testing.T) {
	p := samplePartition()

	bar, err := BuildChart(ChartBar, p, nil, 0)
	if err != nil {
		t.Fatalf("bar: %v", err)
	}
	if len(bar.Frequencies) != 4 || bar.Thresholds == nil {
		t.Errorf("unexpected bar chart %+v", bar)
	}

	supports := model.Supports
	scatter, err := BuildChart(ChartScatter, p, &supports, 0)
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	if len(scatter.Series) != 1 || len(scatter.Series[0].Points) != 3 {
		t.Fatalf("unexpected scatter %+v", scatter)
	}
	if pt := scatter.Series[0].Points[2]; pt.X != 0 || pt.Y != 0.4 {
		t.Errorf("expected pos on x and neg on y, got %+v", pt)
	}

	hist, err := BuildChart(ChartHistogram, p, nil, 5)
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	if len(hist.Series) != 4 || len(hist.Series[2].Histogram) != 5 {
		t.Errorf("unexpected histogram %+v", hist)
	}

	box, err := BuildChart(ChartBox, p, nil, 0)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if box.Series[0].Box != nil || box.Series[2].Box == nil || box.Series[2].Box.Median != 0.4 {
		t.Errorf("unexpected box chart %+v", box.Series)
	}

	op, err := BuildChart(ChartOpinion, p, nil, 0)
	if err != nil {
		t.Fatalf("opinion: %v", err)
	}
	if len(op.Opinions) != 4 || op.Opinions[2].Count != 3 {
		t.Errorf("unexpected opinions %+v", op.Opinions)
	}

	var txt bytes.Buffer
	for _, ch := range []*Chart{bar, scatter, hist, box, op} {
		if err := Write(&txt, FormatText, ch); err != nil {
			t.Errorf("%s text: %v", ch.Kind, err)
		}
	}
}

func TestParseChartKind(t *testing.T) {
	if k, err := ParseChartKind("Scatter"); err != nil || k != ChartScatter {
		t.Errorf("ParseChartKind = %q, %v", k, err)
	}
	if _, err := ParseChartKind("pie"); err == nil {
		t.Error("expected error for unknown chart")
	}
}
