package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/sustainatrend/trendboard/components/dashboard"
)

type assignService interface {
	AddTile(ctx context.Context, req dashboard.AddTileRequest) error
}

// AssignTileCommand translates incoming requests into service calls and emits
// telemetry so operators can observe tile assignment activity.
type AssignTileCommand struct {
	service   assignService
	telemetry Telemetry
}

// NewAssignTileCommand creates a command instance.
func NewAssignTileCommand(service assignService, telemetry Telemetry) *AssignTileCommand {
	return &AssignTileCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.AddTileRequest] = (*AssignTileCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AssignTileCommand) Execute(ctx context.Context, msg dashboard.AddTileRequest) error {
	if c.service == nil {
		return errors.New("assign command requires service")
	}
	if err := c.service.AddTile(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.tile.assign", map[string]any{
		"definition_id": msg.DefinitionID,
		"page_code":     msg.PageCode,
	})
	return nil
}
