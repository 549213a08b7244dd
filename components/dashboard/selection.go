package dashboard

import (
	"strings"
	"sync"

	"github.com/sustainatrend/trendboard/pkg/trends"
	"github.com/sustainatrend/trendboard/pkg/trendsapi"
)

// SelectionState holds one viewer's current filter choices together with the
// records loaded for them. It implements trendsapi.Sink so a fetcher can push
// results into it; stale results never reach Apply, so the records here
// always match the newest selection.
type SelectionState struct {
	mu        sync.RWMutex
	category  string
	timeframe string
	tab       string
	records   []trends.Record
	loading   bool
	lastErr   error
}

// NewSelectionState builds a selection with the given defaults.
func NewSelectionState(category, timeframe string) *SelectionState {
	return &SelectionState{
		category:  category,
		timeframe: timeframe,
		tab:       category,
	}
}

// SetCategory updates the category filter.
func (s *SelectionState) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

// SetTimeframe updates the timeframe filter.
func (s *SelectionState) SetTimeframe(timeframe string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeframe = timeframe
}

// ActivateTab records the tab the viewer switched to.
func (s *SelectionState) ActivateTab(tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
}

// Query returns the trends query matching the current selection.
func (s *SelectionState) Query() trends.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return trends.Query{Category: s.category, Timeframe: s.timeframe}
}

// Selection returns the current category, timeframe and tab.
func (s *SelectionState) Selection() (category, timeframe, tab string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category, s.timeframe, s.tab
}

// SetLoading implements trendsapi.Sink.
func (s *SelectionState) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a fetch is in flight.
func (s *SelectionState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Apply implements trendsapi.Sink: it replaces the loaded records.
func (s *SelectionState) Apply(result trendsapi.FetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = result.Err
	if result.Err != nil {
		return
	}
	s.records = result.Records
}

// Err returns the error from the most recent applied fetch, if any.
func (s *SelectionState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Records returns the loaded records filtered by the current category.
func (s *SelectionState) Records() []trends.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterRecords(s.records, s.category)
}

var _ trendsapi.Sink = (*SelectionState)(nil)

// FilterRecords returns the records matching a category. An empty or "all"
// category matches everything. The input slice is never mutated.
func FilterRecords(records []trends.Record, category string) []trends.Record {
	if category == "" || strings.EqualFold(category, "all") {
		out := make([]trends.Record, len(records))
		copy(out, records)
		return out
	}
	out := make([]trends.Record, 0, len(records))
	for _, record := range records {
		if strings.EqualFold(record.Category, category) {
			out = append(out, record)
		}
	}
	return out
}
