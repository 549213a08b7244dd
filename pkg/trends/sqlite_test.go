package trends

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "trends.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRecordRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	older := Record{
		Name: "Carbon Intensity", Category: "carbon",
		ViralityScore: 62, Direction: DirectionImproving,
		PercentChange: -4.2, Duration: "medium-term",
		Timestamp: now.Add(-time.Hour),
	}
	newer := Record{
		Name: "Energy Efficiency", Category: "energy",
		ViralityScore: 48, Direction: DirectionImproving,
		PercentChange: 2.1, Duration: "short-term",
		Timestamp: now,
	}
	for _, rec := range []Record{older, newer} {
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("save record: %v", err)
		}
	}

	out, err := store.Records(ctx, Query{})
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Name != "Energy Efficiency" {
		t.Fatalf("expected newest first, got %q", out[0].Name)
	}
	if out[1].Direction != DirectionImproving || out[1].Duration != "medium-term" {
		t.Fatalf("record fields lost in round trip: %+v", out[1])
	}
}

func TestSQLiteRecordsCategoryFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, category := range []string{"carbon", "energy", "carbon"} {
		rec := Record{Name: "Trend " + category, Category: category, Timestamp: now}
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("save record: %v", err)
		}
	}

	out, err := store.Records(ctx, Query{Category: "carbon"})
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 carbon records, got %d", len(out))
	}

	all, err := store.Records(ctx, Query{Category: "all"})
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("category \"all\" should match everything, got %d", len(all))
	}

	limited, err := store.Records(ctx, Query{Limit: 1})
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit respected, got %d", len(limited))
	}
}

func TestSQLiteRejectsUnnamedRecord(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveRecord(context.Background(), Record{Category: "energy"}); err == nil {
		t.Fatalf("expected unnamed record rejected")
	}
}

func TestSQLiteReadingsSinceCutoff(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		r := Reading{
			Category:  "energy",
			Metric:    "kwh_sqm",
			Value:     60 + float64(i),
			Timestamp: now.AddDate(0, 0, i-4),
		}
		if err := store.SaveReading(ctx, r); err != nil {
			t.Fatalf("save reading: %v", err)
		}
	}

	out, err := store.Readings(ctx, "energy", "kwh_sqm", now.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("query readings: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 readings inside cutoff, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Timestamp.Before(out[i-1].Timestamp) {
			t.Fatalf("readings not ordered oldest first")
		}
	}
}

func TestSeedSampleDataPopulatesStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records, err := SeedSampleData(ctx, store, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed sample data: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("expected derived records")
	}

	stored, err := store.Records(ctx, Query{})
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	if len(stored) != len(records) {
		t.Fatalf("expected %d stored records, got %d", len(records), len(stored))
	}

	readings, err := store.Readings(ctx, "emissions", "tco2e", time.Now().UTC().AddDate(0, 0, -100))
	if err != nil {
		t.Fatalf("query readings: %v", err)
	}
	if len(readings) != 90 {
		t.Fatalf("expected 90 days of history, got %d", len(readings))
	}

	for _, rec := range records {
		if rec.Category == "emissions" && rec.Direction != DirectionImproving {
			t.Fatalf("falling emissions sample should read as improving, got %s", rec.Direction)
		}
	}
}
