package trends

import (
	"context"
	"time"
)

// Direction labels how a sustainability metric is moving.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionWorsening Direction = "worsening"
)

// Record is a single trend observation produced by the analytics layer.
// Records are read-only to consumers; a fresh query supersedes the previous
// result wholesale, there is no client-side merge.
type Record struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	ViralityScore float64   `json:"virality_score"`
	Direction     Direction `json:"trend_direction"`
	PercentChange float64   `json:"percent_change"`
	Duration      string    `json:"trend_duration"`
	Timestamp     time.Time `json:"timestamp"`
}

// Query filters trend records. Empty or "all" fields match everything.
type Query struct {
	Category  string
	Timeframe string
	Limit     int
}

// Reading is a raw metric sample used to derive trend statistics.
type Reading struct {
	Category  string
	Metric    string
	Value     float64
	Timestamp time.Time
}

// Store persists trend records and the readings they are derived from.
type Store interface {
	SaveRecord(ctx context.Context, rec Record) error
	Records(ctx context.Context, q Query) ([]Record, error)
	SaveReading(ctx context.Context, r Reading) error
	Readings(ctx context.Context, category, metric string, since time.Time) ([]Reading, error)
	Close() error
}

// timeframeCutoff translates the API timeframe tokens into a cutoff time.
func timeframeCutoff(timeframe string, now time.Time) (time.Time, bool) {
	switch timeframe {
	case "", "all":
		return time.Time{}, false
	case "week", "7d":
		return now.AddDate(0, 0, -7), true
	case "month", "30d":
		return now.AddDate(0, 0, -30), true
	case "quarter", "90d":
		return now.AddDate(0, 0, -90), true
	case "year", "365d":
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}
