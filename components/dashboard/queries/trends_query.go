package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

type trendStore interface {
	Records(ctx context.Context, q trends.Query) ([]trends.Record, error)
}

// TrendsQuery executes read-only trend record lookups.
type TrendsQuery struct {
	store trendStore
}

// NewTrendsQuery builds the query.
func NewTrendsQuery(store trendStore) *TrendsQuery {
	return &TrendsQuery{store: store}
}

var _ gocommand.Querier[trends.Query, []trends.Record] = (*TrendsQuery)(nil)

// Query loads trend records for the given filters.
func (q *TrendsQuery) Query(ctx context.Context, input trends.Query) ([]trends.Record, error) {
	return q.store.Records(ctx, input)
}
