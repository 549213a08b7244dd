package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ReorderTilesInput contains the reorder payload.
type ReorderTilesInput struct {
	PageCode string   `json:"page_code"`
	TileIDs  []string `json:"tile_ids"`
}

type reorderService interface {
	ReorderTiles(ctx context.Context, pageCode string, tileIDs []string) error
}

// ReorderTilesCommand wraps Service.ReorderTiles.
type ReorderTilesCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderTilesCommand builds the command.
func NewReorderTilesCommand(service reorderService, telemetry Telemetry) *ReorderTilesCommand {
	return &ReorderTilesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderTilesInput] = (*ReorderTilesCommand)(nil)

// Execute applies the new ordering.
func (c *ReorderTilesCommand) Execute(ctx context.Context, msg ReorderTilesInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if err := c.service.ReorderTiles(ctx, msg.PageCode, msg.TileIDs); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.tile.reorder", map[string]any{
		"page_code": msg.PageCode,
		"count":     len(msg.TileIDs),
	})
	return nil
}
