package trendsapi

import (
	"context"
	"sync"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

// MockClient returns canned records and tracks calls. Useful for tests and
// demo wiring without a live API.
type MockClient struct {
	mu      sync.Mutex
	Trends  []trends.Record
	Estate  []trends.Record
	Errs    map[string]error
	queries []trends.Query
}

// FetchTrends returns the canned general records.
func (m *MockClient) FetchTrends(_ context.Context, q trends.Query) ([]trends.Record, error) {
	m.record(q)
	if err := m.errFor("trends"); err != nil {
		return nil, err
	}
	return filterRecords(m.Trends, q), nil
}

// FetchRealEstateTrends returns the canned portfolio records.
func (m *MockClient) FetchRealEstateTrends(_ context.Context, q trends.Query) ([]trends.Record, error) {
	m.record(q)
	if err := m.errFor("realestate"); err != nil {
		return nil, err
	}
	return filterRecords(m.Estate, q), nil
}

// Queries returns every query issued against the mock, in order.
func (m *MockClient) Queries() []trends.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]trends.Query(nil), m.queries...)
}

func (m *MockClient) record(q trends.Query) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
}

func (m *MockClient) errFor(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Errs == nil {
		return nil
	}
	return m.Errs[key]
}

func filterRecords(records []trends.Record, q trends.Query) []trends.Record {
	if q.Category == "" || q.Category == "all" {
		return append([]trends.Record(nil), records...)
	}
	var out []trends.Record
	for _, rec := range records {
		if rec.Category == q.Category {
			out = append(out, rec)
		}
	}
	return out
}
