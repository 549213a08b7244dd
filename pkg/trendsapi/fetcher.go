package trendsapi

import (
	"context"
	"sync"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

// Client is the read surface the fetcher needs.
type Client interface {
	FetchTrends(ctx context.Context, q trends.Query) ([]trends.Record, error)
	FetchRealEstateTrends(ctx context.Context, q trends.Query) ([]trends.Record, error)
}

// FetchResult carries the outcome of a fetch to the presentation layer.
type FetchResult struct {
	Records []trends.Record
	Query   trends.Query
	Err     error
}

// Sink receives applied fetch results. Loading is toggled around each fetch
// so the UI can show placeholders; Apply only fires for the newest request.
type Sink interface {
	SetLoading(loading bool)
	Apply(result FetchResult)
}

// Fetcher issues trend queries and reconciles overlapping requests: every
// call is tagged with a generation, and a response is applied only while its
// generation is still the newest. A response that resolves after a newer
// request was issued is discarded, so the rendered state always reflects the
// latest filter the user picked. Fetches are never retried automatically.
type Fetcher struct {
	client Client
	sink   Sink

	mu         sync.Mutex
	generation uint64
}

// NewFetcher builds a fetcher over a client and sink.
func NewFetcher(client Client, sink Sink) *Fetcher {
	return &Fetcher{client: client, sink: sink}
}

// FetchTrends loads general trend records for the current filters.
func (f *Fetcher) FetchTrends(ctx context.Context, q trends.Query) {
	f.run(ctx, q, f.client.FetchTrends)
}

// FetchRealEstateTrends loads portfolio trend records for the current filters.
func (f *Fetcher) FetchRealEstateTrends(ctx context.Context, q trends.Query) {
	f.run(ctx, q, f.client.FetchRealEstateTrends)
}

func (f *Fetcher) run(ctx context.Context, q trends.Query, fetch func(context.Context, trends.Query) ([]trends.Record, error)) {
	gen := f.begin()
	records, err := fetch(ctx, q)
	f.finish(gen, FetchResult{Records: records, Query: q, Err: err})
}

// begin bumps the generation and raises the loading flag under one lock so a
// superseded request can never toggle loading after a newer one finished.
func (f *Fetcher) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.sink.SetLoading(true)
	return f.generation
}

// finish clears the loading flag and applies the result, but only while gen
// is still the newest request. Stale results leave the sink untouched.
func (f *Fetcher) finish(gen uint64, result FetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// A newer request superseded this one while it was in flight.
		return
	}
	f.sink.SetLoading(false)
	f.sink.Apply(result)
}
