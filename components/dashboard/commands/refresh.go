package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/sustainatrend/trendboard/components/dashboard"
)

// RefreshTileInput emits refresh notifications for a tile instance.
type RefreshTileInput struct {
	Event dashboard.TileEvent
}

type refreshNotifier interface {
	NotifyTileUpdated(ctx context.Context, event dashboard.TileEvent) error
}

// RefreshTileCommand triggers refresh hooks without forcing transports.
type RefreshTileCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshTileCommand creates the command.
func NewRefreshTileCommand(service refreshNotifier, telemetry Telemetry) *RefreshTileCommand {
	return &RefreshTileCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshTileInput] = (*RefreshTileCommand)(nil)

// Execute notifies the dashboard service's refresh hooks.
func (c *RefreshTileCommand) Execute(ctx context.Context, msg RefreshTileInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if err := c.service.NotifyTileUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.tile.refresh", map[string]any{
		"page_code": msg.Event.PageCode,
		"tile_id":   msg.Event.Instance.ID,
	})
	return nil
}
