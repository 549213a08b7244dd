package trends

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists trend records and raw readings in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trend_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	virality_score REAL NOT NULL,
	direction TEXT NOT NULL,
	percent_change REAL NOT NULL,
	duration TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trend_records_category ON trend_records(category, created_at);

CREATE TABLE IF NOT EXISTS readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	metric TEXT NOT NULL,
	value REAL NOT NULL,
	observed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_metric ON readings(category, metric, observed_at);
`

// OpenSQLite opens (and migrates) a trend store at path. Use ":memory:" for
// an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	if path == ":memory:" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("trends: open store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("trends: migrate store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRecord appends a trend record.
func (s *SQLiteStore) SaveRecord(ctx context.Context, rec Record) error {
	if rec.Name == "" || rec.Category == "" {
		return fmt.Errorf("trends: record name and category are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trend_records (name, category, virality_score, direction, percent_change, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Category, rec.ViralityScore, string(rec.Direction),
		rec.PercentChange, rec.Duration, rec.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("trends: save record: %w", err)
	}
	return nil
}

// Records returns records matching the query, newest first.
func (s *SQLiteStore) Records(ctx context.Context, q Query) ([]Record, error) {
	query := `SELECT name, category, virality_score, direction, percent_change, duration, created_at
		FROM trend_records`
	var (
		clauses []string
		args    []any
	)
	if q.Category != "" && q.Category != "all" {
		clauses = append(clauses, "category = ?")
		args = append(args, q.Category)
	}
	if cutoff, ok := timeframeCutoff(q.Timeframe, time.Now().UTC()); ok {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cutoff)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trends: query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var direction string
		if err := rows.Scan(&rec.Name, &rec.Category, &rec.ViralityScore, &direction,
			&rec.PercentChange, &rec.Duration, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("trends: scan record: %w", err)
		}
		rec.Direction = Direction(direction)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveReading appends a raw metric sample.
func (s *SQLiteStore) SaveReading(ctx context.Context, r Reading) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO readings (category, metric, value, observed_at)
		VALUES (?, ?, ?, ?)`,
		r.Category, r.Metric, r.Value, r.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("trends: save reading: %w", err)
	}
	return nil
}

// Readings returns samples for a metric since the cutoff, oldest first.
func (s *SQLiteStore) Readings(ctx context.Context, category, metric string, since time.Time) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, metric, value, observed_at FROM readings
		WHERE category = ? AND metric = ? AND observed_at >= ?
		ORDER BY observed_at ASC`,
		category, metric, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("trends: query readings: %w", err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(&r.Category, &r.Metric, &r.Value, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("trends: scan reading: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
