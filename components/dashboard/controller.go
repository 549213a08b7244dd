package dashboard

import (
	"context"
	"errors"
	"io"

	"github.com/sustainatrend/trendboard/pkg/trendsapi"
)

// LayoutResolver is the slice of Service the controller depends on.
type LayoutResolver interface {
	ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error)
}

// ControllerOptions wires the controller's collaborators.
type ControllerOptions struct {
	Service  LayoutResolver
	Renderer Renderer
	Template string
	Toasts   *ToastCenter
	Feed     *LiveFeed
	// Client enables the filter endpoints; when nil, category and timeframe
	// changes update the selection without fetching.
	Client           trendsapi.Client
	DefaultCategory  string
	DefaultTimeframe string
}

// Controller orchestrates page rendering: it resolves layouts, tracks the
// viewer's filter selection, and drives trend fetches. Selection changes go
// through the fetcher, so a slow response for an old filter can never
// overwrite a newer one.
type Controller struct {
	service   LayoutResolver
	renderer  Renderer
	template  string
	toasts    *ToastCenter
	feed      *LiveFeed
	selection *SelectionState
	fetcher   *trendsapi.Fetcher
}

// NewController builds a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = "dashboard.html"
	}
	category := opts.DefaultCategory
	if category == "" {
		category = "all"
	}
	timeframe := opts.DefaultTimeframe
	if timeframe == "" {
		timeframe = "30d"
	}
	c := &Controller{
		service:   opts.Service,
		renderer:  opts.Renderer,
		template:  opts.Template,
		toasts:    opts.Toasts,
		feed:      opts.Feed,
		selection: NewSelectionState(category, timeframe),
	}
	if opts.Client != nil {
		c.fetcher = trendsapi.NewFetcher(opts.Client, c.selection)
	}
	return c
}

// Selection exposes the controller's selection state.
func (c *Controller) Selection() *SelectionState {
	return c.selection
}

// SelectCategory updates the category filter and refetches.
func (c *Controller) SelectCategory(ctx context.Context, category string) {
	c.selection.SetCategory(category)
	c.refetch(ctx)
}

// SelectTimeframe updates the timeframe filter and refetches.
func (c *Controller) SelectTimeframe(ctx context.Context, timeframe string) {
	c.selection.SetTimeframe(timeframe)
	c.refetch(ctx)
}

// ActivateTab switches the active tab and clears its unseen counter.
func (c *Controller) ActivateTab(tab string) {
	c.selection.ActivateTab(tab)
	if c.feed != nil {
		c.feed.ActivateTab(tab)
	}
}

func (c *Controller) refetch(ctx context.Context) {
	if c.fetcher == nil {
		return
	}
	c.fetcher.FetchRealEstateTrends(ctx, c.selection.Query())
}

// Render resolves the layout for a viewer and returns it to the caller.
func (c *Controller) Render(ctx context.Context, viewer ViewerContext) (Layout, error) {
	if c.service == nil {
		return Layout{}, nil
	}
	return c.service.ConfigureLayout(ctx, viewer)
}

// LayoutPayload assembles the JSON payload behind the layout endpoint:
// resolved pages plus the viewer's selection, feed badges and active toasts.
func (c *Controller) LayoutPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	layout, err := c.Render(ctx, viewer)
	if err != nil {
		return nil, err
	}

	category, timeframe, tab := c.selection.Selection()
	payload := map[string]any{
		"pages": layout.Pages,
		"selection": map[string]any{
			"category":  category,
			"timeframe": timeframe,
			"tab":       tab,
			"loading":   c.selection.Loading(),
		},
		"records": c.selection.Records(),
	}

	if c.feed != nil {
		badges := map[string]int{}
		for _, cat := range []string{"breeam", "energy", "carbon"} {
			badges[cat] = c.feed.Unseen(cat)
		}
		payload["unseen"] = badges
		payload["feed"] = c.feed.Snapshot(tab)
	}
	if c.toasts != nil {
		payload["toasts"] = c.toasts.Active()
	}
	return payload, nil
}

// RenderTemplate renders the dashboard HTML for a viewer into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: renderer is required to render templates")
	}
	payload, err := c.LayoutPayload(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}
