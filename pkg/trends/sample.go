package trends

import (
	"context"
	"fmt"
	"math"
	"time"
)

// CategoryPolarities maps the built-in sustainability categories to their
// polarity rules. Emissions- and consumption-style categories read a drop as
// an improvement.
var CategoryPolarities = map[string]Polarity{
	"emissions": NegativeIsGood,
	"carbon":    NegativeIsGood,
	"energy":    PositiveIsGood,
	"breeam":    PositiveIsGood,
	"water":     NegativeIsGood,
	"waste":     NegativeIsGood,
	"social":    PositiveIsGood,
	"esg":       PositiveIsGood,
}

// PolarityFor returns the polarity rule for a category, defaulting to
// PositiveIsGood for unknown categories.
func PolarityFor(category string) Polarity {
	if p, ok := CategoryPolarities[category]; ok {
		return p
	}
	return PositiveIsGood
}

type sampleSeries struct {
	name     string
	category string
	metric   string
	base     float64
	drift    float64
	wobble   float64
}

var sampleCatalog = []sampleSeries{
	{name: "Scope 1 Emissions", category: "emissions", metric: "tco2e", base: 420, drift: -1.8, wobble: 12},
	{name: "Scope 2 Emissions", category: "emissions", metric: "tco2e_scope2", base: 310, drift: -0.9, wobble: 9},
	{name: "Carbon Intensity", category: "carbon", metric: "kgco2_sqm", base: 38, drift: -0.12, wobble: 1.4},
	{name: "Energy Efficiency", category: "energy", metric: "kwh_sqm", base: 61, drift: 0.3, wobble: 2.2},
	{name: "Renewable Share", category: "energy", metric: "renewable_pct", base: 34, drift: 0.22, wobble: 1.1},
	{name: "BREEAM Portfolio Score", category: "breeam", metric: "score", base: 71, drift: 0.08, wobble: 0.8},
	{name: "Water Consumption", category: "water", metric: "m3", base: 1900, drift: -4.5, wobble: 60},
	{name: "Waste Diversion", category: "waste", metric: "diverted_pct", base: 55, drift: 0.15, wobble: 2.0},
	{name: "Supplier ESG Coverage", category: "esg", metric: "coverage_pct", base: 48, drift: 0.4, wobble: 1.6},
	{name: "Workforce Wellbeing", category: "social", metric: "index", base: 66, drift: 0.1, wobble: 1.2},
}

// SeedSampleData fills the store with a deterministic ninety-day history per
// catalog series plus the derived trend records. Used by /api/sample-data and
// the trendctl seed command.
func SeedSampleData(ctx context.Context, store Store, now time.Time) ([]Record, error) {
	const days = 90
	records := make([]Record, 0, len(sampleCatalog))
	for _, series := range sampleCatalog {
		readings := make([]Reading, 0, days)
		for day := 0; day < days; day++ {
			ts := now.AddDate(0, 0, day-days)
			value := series.base + series.drift*float64(day) +
				series.wobble*math.Sin(float64(day)/6)
			reading := Reading{
				Category:  series.category,
				Metric:    series.metric,
				Value:     value,
				Timestamp: ts,
			}
			if err := store.SaveReading(ctx, reading); err != nil {
				return nil, fmt.Errorf("trends: seed reading %s: %w", series.metric, err)
			}
			readings = append(readings, reading)
		}
		rec := Summarize(series.name, series.category, readings, PolarityFor(series.category), now)
		if err := store.SaveRecord(ctx, rec); err != nil {
			return nil, fmt.Errorf("trends: seed record %s: %w", series.name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
