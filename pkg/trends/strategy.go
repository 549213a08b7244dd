package trends

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Analyzer produces strategy artifacts (insights, documents, framework
// scores) from stored trend data.
type Analyzer struct {
	store    Store
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewAnalyzer builds an analyzer over the given store.
func NewAnalyzer(store Store) *Analyzer {
	return &Analyzer{
		store:    store,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

// TrendInsight is the response shape of /api/strategy/analyze-trend.
type TrendInsight struct {
	Record          Record   `json:"record"`
	Assessment      string   `json:"assessment"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeTrend summarizes the freshest record for the named trend and derives
// an assessment with recommendations.
func (a *Analyzer) AnalyzeTrend(ctx context.Context, name string) (TrendInsight, error) {
	if strings.TrimSpace(name) == "" {
		return TrendInsight{}, fmt.Errorf("trends: trend name is required")
	}
	records, err := a.store.Records(ctx, Query{})
	if err != nil {
		return TrendInsight{}, fmt.Errorf("trends: analyze %q: %w", name, err)
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Name, name) {
			return TrendInsight{
				Record:          rec,
				Assessment:      assessRecord(rec),
				Recommendations: recommendFor(rec),
			}, nil
		}
	}
	return TrendInsight{}, fmt.Errorf("trends: trend %q not found", name)
}

func assessRecord(rec Record) string {
	momentum := "steady"
	switch {
	case rec.ViralityScore >= 70:
		momentum = "accelerating sharply"
	case rec.ViralityScore >= 40:
		momentum = "gaining momentum"
	}
	return fmt.Sprintf("%s is %s and %s (%.1f%% over the %s window).",
		rec.Name, rec.Direction, momentum, rec.PercentChange, defaultDuration(rec.Duration))
}

func recommendFor(rec Record) []string {
	if rec.Direction == DirectionImproving {
		return []string{
			"Maintain current initiatives and lock in the gains contractually.",
			"Publicize the improvement in the next disclosure cycle.",
		}
	}
	return []string{
		"Schedule a root-cause review with the responsible portfolio team.",
		"Set an interim reduction target and track it weekly on the dashboard.",
	}
}

func defaultDuration(d string) string {
	if d == "" {
		return "current"
	}
	return d
}

// GenerateDocument renders a markdown strategy report for a category and
// returns both the raw markdown and sanitized HTML.
func (a *Analyzer) GenerateDocument(ctx context.Context, category string, now time.Time) (markdown, html string, err error) {
	records, err := a.store.Records(ctx, Query{Category: category})
	if err != nil {
		return "", "", fmt.Errorf("trends: generate document: %w", err)
	}
	if len(records) == 0 {
		return "", "", fmt.Errorf("trends: no records for category %q", category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Sustainability Strategy Brief — %s\n\n", titleCase(category))
	fmt.Fprintf(&b, "_Generated %s_\n\n", now.Format("2006-01-02"))
	b.WriteString("| Trend | Direction | Change | Virality |\n")
	b.WriteString("| --- | --- | ---: | ---: |\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "| %s | %s | %.1f%% | %.0f |\n",
			rec.Name, rec.Direction, rec.PercentChange, rec.ViralityScore)
	}
	b.WriteString("\n## Assessment\n\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "- %s\n", assessRecord(rec))
	}

	var rendered bytes.Buffer
	if err := a.markdown.Convert([]byte(b.String()), &rendered); err != nil {
		return "", "", fmt.Errorf("trends: render document: %w", err)
	}
	return b.String(), a.policy.Sanitize(rendered.String()), nil
}

// FrameworkScore reports alignment of the portfolio data against one
// reporting framework.
type FrameworkScore struct {
	Framework string   `json:"framework"`
	Score     float64  `json:"score"`
	Covered   []string `json:"covered_categories"`
	Gaps      []string `json:"gaps"`
}

// frameworkCategoryMap names the categories each framework expects data for.
var frameworkCategoryMap = map[string][]string{
	"CSRD":   {"emissions", "energy", "water", "waste", "social"},
	"GRI":    {"emissions", "energy", "water", "waste"},
	"SASB":   {"emissions", "energy", "esg"},
	"TCFD":   {"emissions", "carbon", "energy"},
	"BREEAM": {"breeam", "energy", "water"},
}

// FrameworkAnalysis scores data coverage per reporting framework.
func (a *Analyzer) FrameworkAnalysis(ctx context.Context) ([]FrameworkScore, error) {
	records, err := a.store.Records(ctx, Query{})
	if err != nil {
		return nil, fmt.Errorf("trends: framework analysis: %w", err)
	}
	present := map[string]bool{}
	for _, rec := range records {
		present[rec.Category] = true
	}

	scores := make([]FrameworkScore, 0, len(frameworkCategoryMap))
	for framework, wanted := range frameworkCategoryMap {
		var covered, gaps []string
		for _, category := range wanted {
			if present[category] {
				covered = append(covered, category)
			} else {
				gaps = append(gaps, category)
			}
		}
		scores = append(scores, FrameworkScore{
			Framework: framework,
			Score:     100 * float64(len(covered)) / float64(len(wanted)),
			Covered:   covered,
			Gaps:      gaps,
		})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Framework < scores[j].Framework })
	return scores, nil
}

// SearchResult is one hit of an integrated search across trend records.
type SearchResult struct {
	Record Record  `json:"record"`
	Rank   float64 `json:"rank"`
}

// Search matches records whose name or category contains every term,
// ranked by virality.
func (a *Analyzer) Search(ctx context.Context, query string) ([]SearchResult, error) {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(terms) == 0 {
		return nil, nil
	}
	records, err := a.store.Records(ctx, Query{})
	if err != nil {
		return nil, fmt.Errorf("trends: search: %w", err)
	}
	var results []SearchResult
	for _, rec := range records {
		haystack := strings.ToLower(rec.Name + " " + rec.Category)
		matched := true
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				matched = false
				break
			}
		}
		if matched {
			results = append(results, SearchResult{Record: rec, Rank: rec.ViralityScore})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Rank > results[j].Rank })
	return results, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
