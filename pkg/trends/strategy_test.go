package trends

import (
	"context"
	"strings"
	"testing"
	"time"
)

type memoryRecordStore struct {
	records []Record
}

func (s *memoryRecordStore) SaveRecord(_ context.Context, rec Record) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *memoryRecordStore) Records(_ context.Context, q Query) ([]Record, error) {
	if q.Category == "" || q.Category == "all" {
		return s.records, nil
	}
	var out []Record
	for _, rec := range s.records {
		if strings.EqualFold(rec.Category, q.Category) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memoryRecordStore) SaveReading(context.Context, Reading) error { return nil }

func (s *memoryRecordStore) Readings(context.Context, string, string, time.Time) ([]Reading, error) {
	return nil, nil
}

func (s *memoryRecordStore) Close() error { return nil }

func strategyStore() *memoryRecordStore {
	now := time.Now().UTC()
	return &memoryRecordStore{records: []Record{
		{Name: "Scope 1 Emissions", Category: "emissions", ViralityScore: 82, Direction: DirectionImproving, PercentChange: -6.1, Duration: "long-term", Timestamp: now},
		{Name: "Energy Efficiency", Category: "energy", ViralityScore: 55, Direction: DirectionImproving, PercentChange: 3.4, Duration: "medium-term", Timestamp: now},
		{Name: "Water Consumption", Category: "water", ViralityScore: 31, Direction: DirectionWorsening, PercentChange: 4.8, Duration: "short-term", Timestamp: now},
	}}
}

func TestAnalyzeTrendRequiresName(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	if _, err := analyzer.AnalyzeTrend(context.Background(), "  "); err == nil {
		t.Fatalf("expected blank name rejected")
	}
}

func TestAnalyzeTrendMatchesCaseInsensitive(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	insight, err := analyzer.AnalyzeTrend(context.Background(), "scope 1 emissions")
	if err != nil {
		t.Fatalf("AnalyzeTrend returned error: %v", err)
	}
	if insight.Record.Name != "Scope 1 Emissions" {
		t.Fatalf("unexpected record %+v", insight.Record)
	}
	if insight.Assessment == "" || len(insight.Recommendations) == 0 {
		t.Fatalf("expected assessment and recommendations")
	}
}

func TestAnalyzeTrendUnknownName(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	_, err := analyzer.AnalyzeTrend(context.Background(), "Office Plants")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRecommendationsFollowDirection(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	improving, err := analyzer.AnalyzeTrend(context.Background(), "Energy Efficiency")
	if err != nil {
		t.Fatalf("AnalyzeTrend returned error: %v", err)
	}
	worsening, err := analyzer.AnalyzeTrend(context.Background(), "Water Consumption")
	if err != nil {
		t.Fatalf("AnalyzeTrend returned error: %v", err)
	}
	if improving.Recommendations[0] == worsening.Recommendations[0] {
		t.Fatalf("expected direction-specific recommendations")
	}
}

func TestGenerateDocument(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	markdown, html, err := analyzer.GenerateDocument(context.Background(), "energy", now)
	if err != nil {
		t.Fatalf("GenerateDocument returned error: %v", err)
	}
	if !strings.Contains(markdown, "# Sustainability Strategy Brief") {
		t.Fatalf("expected report heading in markdown")
	}
	if !strings.Contains(markdown, "Energy Efficiency") {
		t.Fatalf("expected trend rows in markdown")
	}
	if !strings.Contains(markdown, "2026-08-01") {
		t.Fatalf("expected generation date in markdown")
	}
	if !strings.Contains(html, "<table>") {
		t.Fatalf("expected GFM table rendered to HTML")
	}
}

func TestGenerateDocumentNoRecords(t *testing.T) {
	analyzer := NewAnalyzer(&memoryRecordStore{})
	if _, _, err := analyzer.GenerateDocument(context.Background(), "energy", time.Now()); err == nil {
		t.Fatalf("expected error for empty category")
	}
}

func TestGenerateDocumentSanitizesHTML(t *testing.T) {
	store := &memoryRecordStore{records: []Record{{
		Name:      `<script>alert("x")</script>Rooftop Solar`,
		Category:  "energy",
		Timestamp: time.Now().UTC(),
	}}}
	analyzer := NewAnalyzer(store)
	_, html, err := analyzer.GenerateDocument(context.Background(), "energy", time.Now())
	if err != nil {
		t.Fatalf("GenerateDocument returned error: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("expected script tags stripped from HTML")
	}
}

func TestFrameworkAnalysisScoresCoverage(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	scores, err := analyzer.FrameworkAnalysis(context.Background())
	if err != nil {
		t.Fatalf("FrameworkAnalysis returned error: %v", err)
	}
	if len(scores) != len(frameworkCategoryMap) {
		t.Fatalf("expected %d frameworks, got %d", len(frameworkCategoryMap), len(scores))
	}
	for i := 1; i < len(scores); i++ {
		if scores[i-1].Framework > scores[i].Framework {
			t.Fatalf("frameworks not sorted by name")
		}
	}
	for _, score := range scores {
		if score.Framework != "TCFD" {
			continue
		}
		// store covers emissions and energy out of TCFD's three categories
		if len(score.Covered) != 2 || len(score.Gaps) != 1 {
			t.Fatalf("unexpected TCFD coverage %+v", score)
		}
		if score.Score < 66 || score.Score > 67 {
			t.Fatalf("unexpected TCFD score %v", score.Score)
		}
	}
}

func TestFrameworkAnalysisEmptyStore(t *testing.T) {
	analyzer := NewAnalyzer(&memoryRecordStore{})
	scores, err := analyzer.FrameworkAnalysis(context.Background())
	if err != nil {
		t.Fatalf("FrameworkAnalysis returned error: %v", err)
	}
	for _, score := range scores {
		if score.Score != 0 || len(score.Covered) != 0 {
			t.Fatalf("expected zero coverage, got %+v", score)
		}
	}
}

func TestSearchRanksByVirality(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	results, err := analyzer.Search(context.Background(), "e")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected all records matched, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Rank < results[i].Rank {
			t.Fatalf("results not ranked by virality")
		}
	}
}

func TestSearchRequiresEveryTerm(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	results, err := analyzer.Search(context.Background(), "energy efficiency")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 || results[0].Record.Name != "Energy Efficiency" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	analyzer := NewAnalyzer(strategyStore())
	results, err := analyzer.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results for empty query")
	}
}
