package dashboard

import (
	"context"
	"fmt"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

// TrendChartProvider renders a line chart of metric readings from the trend
// store. The chart theme follows the viewer's theme selection.
type TrendChartProvider struct {
	store  trends.Store
	charts *EChartsProvider
}

// NewTrendChartProvider builds a provider over a trend store.
func NewTrendChartProvider(store trends.Store, options ...EChartsProviderOption) *TrendChartProvider {
	return &TrendChartProvider{
		store:  store,
		charts: NewEChartsProvider("line", options...),
	}
}

// Fetch loads readings for the configured category and renders them.
func (p *TrendChartProvider) Fetch(ctx context.Context, meta TileContext) (TileData, error) {
	cfg := meta.Instance.Configuration
	query := queryFromConfig(cfg)

	records, err := p.store.Records(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load trend records: %w", err)
	}

	labels := make([]string, 0, len(records))
	points := make([]any, 0, len(records))
	for _, record := range records {
		labels = append(labels, record.Name)
		points = append(points, record.ViralityScore)
	}

	chartMeta := meta
	chartMeta.Instance.Configuration = map[string]any{
		"title":    stringValue(cfg["title"], "Trend Virality"),
		"subtitle": query.Category,
		"x_axis":   labels,
		"series": []map[string]any{
			{"name": "Virality", "data": points},
		},
	}
	data, err := p.charts.Fetch(ctx, chartMeta)
	if err != nil {
		return nil, err
	}
	data["records"] = records
	return data, nil
}

// TrendListProvider returns ranked trend records for table tiles. Rows are
// filtered by the configured category before truncation, so the limit always
// applies to visible rows.
type TrendListProvider struct {
	store trends.Store
}

// NewTrendListProvider builds a provider over a trend store.
func NewTrendListProvider(store trends.Store) *TrendListProvider {
	return &TrendListProvider{store: store}
}

// Fetch loads, filters and truncates trend records.
func (p *TrendListProvider) Fetch(ctx context.Context, meta TileContext) (TileData, error) {
	cfg := meta.Instance.Configuration
	query := queryFromConfig(cfg)

	records, err := p.store.Records(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load trend records: %w", err)
	}
	records = FilterRecords(records, query.Category)
	if query.Limit > 0 && len(records) > query.Limit {
		records = records[:query.Limit]
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = map[string]any{
			"name":           record.Name,
			"category":       record.Category,
			"virality_score": record.ViralityScore,
			"direction":      string(record.Direction),
			"percent_change": record.PercentChange,
			"improved":       trends.PolarityFor(record.Category).Improved(record.PercentChange),
		}
	}

	return TileData{
		"rows":      rows,
		"category":  query.Category,
		"timeframe": query.Timeframe,
	}, nil
}

// LiveUpdatesProvider exposes a live feed snapshot for one category tab.
type LiveUpdatesProvider struct {
	feed *LiveFeed
}

// NewLiveUpdatesProvider builds a provider over a live feed.
func NewLiveUpdatesProvider(feed *LiveFeed) *LiveUpdatesProvider {
	return &LiveUpdatesProvider{feed: feed}
}

// Fetch returns the newest-first entries, alerts and unseen count.
func (p *LiveUpdatesProvider) Fetch(_ context.Context, meta TileContext) (TileData, error) {
	category := stringValue(meta.Instance.Configuration["category"], "")
	if category == "" {
		return nil, fmt.Errorf("live updates tile requires a category")
	}
	snapshot := p.feed.Snapshot(category)
	return TileData{
		"category": snapshot.Category,
		"entries":  snapshot.Entries,
		"alerts":   snapshot.Alerts,
		"unseen":   snapshot.Unseen,
		"active":   snapshot.Active,
	}, nil
}

// FrameworkProvider scores reporting framework coverage from stored trends.
type FrameworkProvider struct {
	analyzer *trends.Analyzer
}

// NewFrameworkProvider builds a provider over a trend analyzer.
func NewFrameworkProvider(analyzer *trends.Analyzer) *FrameworkProvider {
	return &FrameworkProvider{analyzer: analyzer}
}

// Fetch returns coverage scores, optionally filtered to the configured
// frameworks.
func (p *FrameworkProvider) Fetch(ctx context.Context, meta TileContext) (TileData, error) {
	cfg := meta.Instance.Configuration
	wanted := stringSliceValue(cfg["frameworks"])

	scores, err := p.analyzer.FrameworkAnalysis(ctx)
	if err != nil {
		return nil, fmt.Errorf("framework analysis: %w", err)
	}
	if len(wanted) > 0 {
		keep := make(map[string]bool, len(wanted))
		for _, framework := range wanted {
			keep[framework] = true
		}
		filtered := scores[:0]
		for _, score := range scores {
			if keep[score.Framework] {
				filtered = append(filtered, score)
			}
		}
		scores = filtered
	}
	return TileData{
		"scores": scores,
	}, nil
}

func queryFromConfig(cfg map[string]any) trends.Query {
	query := trends.Query{
		Category:  stringValue(cfg["category"], ""),
		Timeframe: stringValue(cfg["timeframe"], "30d"),
	}
	if limit := float64Value(cfg["limit"]); limit > 0 {
		query.Limit = int(limit)
	}
	return query
}
