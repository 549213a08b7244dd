package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/sustainatrend/trendboard/components/dashboard"
)

// SavePreferencesInput captures viewer overrides for layout and filters.
type SavePreferencesInput struct {
	Viewer           dashboard.ViewerContext `json:"viewer"`
	DarkMode         bool                    `json:"dark_mode"`
	NavCollapsed     bool                    `json:"nav_collapsed"`
	DefaultCategory  string                  `json:"default_category"`
	DefaultTimeframe string                  `json:"default_timeframe"`
	PageOrder        map[string][]string     `json:"page_order"`
	HiddenTiles      []string                `json:"hidden_tile_ids"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, prefs dashboard.ViewerPreferences) error
}

// SavePreferencesCommand persists per-viewer UI preferences.
type SavePreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(service preferenceService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute stores the provided preferences for the viewer.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Viewer.UserID == "" {
		return errors.New("preferences command requires viewer user id")
	}
	prefs := dashboard.ViewerPreferences{
		DarkMode:         msg.DarkMode,
		NavCollapsed:     msg.NavCollapsed,
		DefaultCategory:  msg.DefaultCategory,
		DefaultTimeframe: msg.DefaultTimeframe,
		PageOrder:        msg.PageOrder,
		HiddenTiles:      make(map[string]bool, len(msg.HiddenTiles)),
	}
	for _, id := range msg.HiddenTiles {
		prefs.HiddenTiles[id] = true
	}
	if err := c.service.SavePreferences(ctx, msg.Viewer, prefs); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.preferences.save", map[string]any{
		"user_id":    msg.Viewer.UserID,
		"dark_mode":  msg.DarkMode,
		"pages":      len(msg.PageOrder),
		"hidden_cnt": len(msg.HiddenTiles),
	})
	return nil
}
