package trends

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Polarity captures whether a rising metric is good news. Carbon emissions
// invert the usual reading: a negative change is an improvement.
type Polarity int

const (
	// PositiveIsGood applies to scores like BREEAM or energy efficiency.
	PositiveIsGood Polarity = iota
	// NegativeIsGood applies to emissions and consumption style metrics.
	NegativeIsGood
)

// Improved reports whether the given change is an improvement under the
// polarity rule.
func (p Polarity) Improved(change float64) bool {
	if p == NegativeIsGood {
		return change < 0
	}
	return change > 0
}

// PercentChange returns the relative change between the first and last
// reading, in percent. A zero baseline yields zero rather than Inf.
func PercentChange(readings []Reading) float64 {
	if len(readings) < 2 {
		return 0
	}
	first, last := readings[0].Value, readings[len(readings)-1].Value
	if first == 0 {
		return 0
	}
	return (last - first) / math.Abs(first) * 100
}

// Slope fits a least-squares line over the readings and returns the slope in
// metric units per day.
func Slope(readings []Reading) float64 {
	if len(readings) < 2 {
		return 0
	}
	xs := make([]float64, len(readings))
	ys := make([]float64, len(readings))
	origin := readings[0].Timestamp
	for i, r := range readings {
		xs[i] = r.Timestamp.Sub(origin).Hours() / 24
		ys[i] = r.Value
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) {
		return 0
	}
	return slope
}

// DirectionOf classifies the trend of the readings under a polarity rule.
func DirectionOf(readings []Reading, polarity Polarity) Direction {
	if polarity.Improved(Slope(readings)) {
		return DirectionImproving
	}
	return DirectionWorsening
}

// ViralityScore ranks how sharply a metric is moving relative to its own
// spread, normalized to 0..100. Flat series score zero.
func ViralityScore(readings []Reading) float64 {
	if len(readings) < 2 {
		return 0
	}
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.Value
	}
	mean, stddev := stat.MeanStdDev(values, nil)
	if stddev == 0 || mean == 0 {
		return 0
	}
	momentum := math.Abs(Slope(readings)) / stddev
	score := 100 * (1 - math.Exp(-momentum))
	return math.Min(100, math.Max(0, math.Round(score*10)/10))
}

// Summarize derives a Record from a window of readings.
func Summarize(name, category string, readings []Reading, polarity Polarity, now time.Time) Record {
	sorted := append([]Reading(nil), readings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })
	duration := ""
	if len(sorted) > 1 {
		days := int(sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp).Hours() / 24)
		switch {
		case days >= 90:
			duration = "long-term"
		case days >= 30:
			duration = "medium-term"
		default:
			duration = "short-term"
		}
	}
	return Record{
		Name:          name,
		Category:      category,
		ViralityScore: ViralityScore(sorted),
		Direction:     DirectionOf(sorted, polarity),
		PercentChange: PercentChange(sorted),
		Duration:      duration,
		Timestamp:     now,
	}
}
