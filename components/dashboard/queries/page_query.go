package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/sustainatrend/trendboard/components/dashboard"
)

// PageInput identifies a page request for a viewer.
type PageInput struct {
	Viewer   dashboard.ViewerContext
	PageCode string
}

type pageService interface {
	ResolvePage(ctx context.Context, viewer dashboard.ViewerContext, pageCode string) (dashboard.ResolvedPage, error)
}

// PageQuery fetches tiles for a specific page.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageInput, dashboard.ResolvedPage] = (*PageQuery)(nil)

// Query resolves an individual page for the viewer.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (dashboard.ResolvedPage, error) {
	return q.service.ResolvePage(ctx, input.Viewer, input.PageCode)
}
