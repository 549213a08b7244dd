package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RemoveTileInput identifies the tile instance to remove.
type RemoveTileInput struct {
	TileID string `json:"tile_id"`
}

type removeService interface {
	RemoveTile(ctx context.Context, tileID string) error
}

// RemoveTileCommand wraps Service.RemoveTile.
type RemoveTileCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveTileCommand builds a command instance.
func NewRemoveTileCommand(service removeService, telemetry Telemetry) *RemoveTileCommand {
	return &RemoveTileCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveTileInput] = (*RemoveTileCommand)(nil)

// Execute removes the tile.
func (c *RemoveTileCommand) Execute(ctx context.Context, msg RemoveTileInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if err := c.service.RemoveTile(ctx, msg.TileID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.tile.remove", map[string]any{"tile_id": msg.TileID})
	return nil
}
