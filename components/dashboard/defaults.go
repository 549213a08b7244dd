package dashboard

import (
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
)

var defaultPageDefinitions = []PageDefinition{
	{
		Code:        "st.page.overview",
		Name:        "Sustainability Overview",
		Description: "Portfolio-wide sustainability metrics and live updates",
		Tabs: []TabDefinition{
			{ID: "tab-breeam", Label: "BREEAM", Category: "breeam"},
			{ID: "tab-energy", Label: "Energy", Category: "energy"},
			{ID: "tab-carbon", Label: "Carbon", Category: "carbon"},
			{ID: "tab-alerts", Label: "Alerts", Category: "alerts"},
		},
	},
	{
		Code:        "st.page.realestate",
		Name:        "Real Estate Trends",
		Description: "Sustainability trends across the property portfolio",
		Tabs: []TabDefinition{
			{ID: "tab-all", Label: "All", Category: "all"},
			{ID: "tab-breeam", Label: "BREEAM", Category: "breeam"},
			{ID: "tab-energy", Label: "Energy", Category: "energy"},
			{ID: "tab-carbon", Label: "Carbon", Category: "carbon"},
		},
	},
	{
		Code:        "st.page.strategy",
		Name:        "Strategy Hub",
		Description: "Trend analysis, framework coverage and document generation",
		Tabs: []TabDefinition{
			{ID: "tab-insights", Label: "Insights", Category: "all"},
			{ID: "tab-frameworks", Label: "Frameworks", Category: "all"},
		},
	},
}

var defaultTileDefinitions = []TileDefinition{
	{
		Code:        "st.tile.trend_chart",
		Name:        "Trend Chart",
		Description: "Virality and percent-change trend line for one category",
		Category:    "trends",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type": "string",
					"enum": []string{"all", "emissions", "carbon", "energy", "water", "waste", "breeam", "social", "esg"},
				},
				"timeframe": map[string]any{
					"type":    "string",
					"enum":    []string{"7d", "30d", "90d", "180d", "365d"},
					"default": "30d",
				},
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 50,
					"default": 10,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "st.tile.trend_list",
		Name:        "Trend List",
		Description: "Ranked table of trending sustainability metrics",
		Category:    "trends",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type": "string",
				},
				"timeframe": map[string]any{
					"type":    "string",
					"default": "30d",
				},
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 50,
					"default": 10,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "st.tile.live_updates",
		Name:        "Live Updates",
		Description: "Most recent realtime property updates for one category",
		Category:    "realtime",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"category"},
			"properties": map[string]any{
				"category": map[string]any{
					"type": "string",
					"enum": []string{"breeam", "energy", "carbon"},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "st.tile.framework_scores",
		Name:        "Framework Coverage",
		Description: "Reporting framework coverage scores",
		Category:    "strategy",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"frameworks": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"uniqueItems": true,
				},
				"timeframe": map[string]any{
					"type":    "string",
					"default": "90d",
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "st.tile.bar_chart",
		Name:        "Bar Chart",
		Description: "Interactive bar chart visualization.",
		Category:    "charts",
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        "st.tile.line_chart",
		Name:        "Line Chart",
		Description: "Interactive line chart visualization.",
		Category:    "charts",
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        "st.tile.pie_chart",
		Name:        "Pie Chart",
		Description: "Interactive pie chart visualization.",
		Category:    "charts",
		Schema:      chartConfigSchema(false),
	},
	{
		Code:        "st.tile.scatter_chart",
		Name:        "Scatter Chart",
		Description: "Value-vs-value scatter visualization.",
		Category:    "charts",
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        "st.tile.gauge_chart",
		Name:        "Gauge Chart",
		Description: "Single-value gauge visualization.",
		Category:    "charts",
		Schema:      chartConfigSchema(false),
	},
}

// Chart providers register through the tile hook in providers_echarts.go;
// data-backed providers are wired by the application once its stores exist.
var defaultProviders = map[string]Provider{}

func chartSeriesSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "data"},
		"properties": map[string]any{
			"name": map[string]any{
				"type":    "string",
				"default": "Series",
			},
			"data": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"oneOf": []map[string]any{
						{"type": "number"},
						{
							"type":     "object",
							"required": []string{"value"},
							"properties": map[string]any{
								"name":  map[string]any{"type": "string"},
								"value": map[string]any{"type": "number"},
								"x":     map[string]any{"type": "number"},
								"y":     map[string]any{"type": "number"},
							},
						},
						{
							"type":     "object",
							"required": []string{"x", "y"},
							"properties": map[string]any{
								"name": map[string]any{"type": "string"},
								"x":    map[string]any{"type": "number"},
								"y":    map[string]any{"type": "number"},
							},
						},
						{
							"type":     "array",
							"minItems": 2,
							"items": map[string]any{
								"type": "number",
							},
						},
					},
				},
			},
		},
	}
}

func chartConfigSchema(includeAxis bool) map[string]any {
	props := map[string]any{
		"title": map[string]any{
			"type":    "string",
			"default": "Chart",
		},
		"subtitle": map[string]any{
			"type": "string",
		},
		"series": map[string]any{
			"type":     "array",
			"items":    chartSeriesSchema(),
			"minItems": 1,
		},
		"theme": map[string]any{
			"type": "string",
			"enum": []string{
				string(types.ThemeWesteros),
				string(types.ThemeWalden),
				string(types.ThemeWonderland),
				string(types.ThemeChalk),
			},
		},
		"dynamic": map[string]any{
			"type":    "boolean",
			"default": false,
		},
		"refresh_endpoint": map[string]any{
			"type": "string",
		},
	}
	if includeAxis {
		props["x_axis"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "string",
			},
		}
	}
	return map[string]any{
		"type":       "object",
		"required":   []string{"series"},
		"properties": props,
	}
}

var defaultSeedConfigs = []AddTileRequest{
	{
		DefinitionID:  "st.tile.trend_chart",
		PageCode:      "st.page.overview",
		Configuration: map[string]any{"category": "carbon", "timeframe": "30d"},
	},
	{
		DefinitionID:  "st.tile.live_updates",
		PageCode:      "st.page.overview",
		Configuration: map[string]any{"category": "energy"},
	},
	{
		DefinitionID:  "st.tile.trend_list",
		PageCode:      "st.page.realestate",
		Configuration: map[string]any{"limit": 10},
	},
	{
		DefinitionID:  "st.tile.framework_scores",
		PageCode:      "st.page.strategy",
		Configuration: map[string]any{"frameworks": []any{"CSRD", "GRI", "TCFD"}},
	},
}

// DefaultPageDefinitions returns copies of the built-in page definitions.
func DefaultPageDefinitions() []PageDefinition {
	out := make([]PageDefinition, len(defaultPageDefinitions))
	for i, def := range defaultPageDefinitions {
		page := def
		page.Tabs = append([]TabDefinition(nil), def.Tabs...)
		out[i] = page
	}
	return out
}

// DefaultTileDefinitions returns copies of the built-in tile definitions.
func DefaultTileDefinitions() []TileDefinition {
	out := make([]TileDefinition, len(defaultTileDefinitions))
	copy(out, defaultTileDefinitions)
	return out
}

// DefaultSeedTiles returns starter tile assignments.
func DefaultSeedTiles() []AddTileRequest {
	out := make([]AddTileRequest, len(defaultSeedConfigs))
	for i, cfg := range defaultSeedConfigs {
		copyCfg := cfg
		if cfg.Position != nil {
			pos := *cfg.Position
			copyCfg.Position = &pos
		}
		out[i] = copyCfg
	}
	return out
}

// DefaultTileVisibility returns a permissive visibility configuration for seeds.
func DefaultTileVisibility() TileVisibility {
	now := time.Now().UTC()
	return TileVisibility{
		StartAt: &now,
	}
}
