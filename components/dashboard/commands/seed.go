package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/sustainatrend/trendboard/components/dashboard"
	"github.com/sustainatrend/trendboard/pkg/trends"
)

// SeedDashboardInput controls bootstrap behavior.
type SeedDashboardInput struct {
	SeedLayout bool
	// SeedSampleData populates the trend store with deterministic sample
	// history so pages render before real ingestion starts.
	SeedSampleData bool
}

// SeedDashboardCommand registers pages/definitions and optionally seeds the
// starter layout and sample trend data.
type SeedDashboardCommand struct {
	store      dashboard.TileStore
	registry   dashboard.ProviderRegistry
	service    *dashboard.Service
	trendStore trends.Store
	telemetry  Telemetry
}

// NewSeedDashboardCommand wires dependencies. The trend store may be nil when
// sample data seeding is not needed.
func NewSeedDashboardCommand(store dashboard.TileStore, registry dashboard.ProviderRegistry, service *dashboard.Service, trendStore trends.Store, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		store:      store,
		registry:   registry,
		service:    service,
		trendStore: trendStore,
		telemetry:  normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.store == nil {
		return errors.New("seed command requires tile store")
	}
	if err := dashboard.RegisterPages(ctx, c.store); err != nil {
		return err
	}
	if err := dashboard.RegisterDefinitions(ctx, c.store, c.registry); err != nil {
		return err
	}
	if msg.SeedLayout && c.service != nil {
		if err := dashboard.SeedLayout(ctx, c.service); err != nil {
			return err
		}
	}
	if msg.SeedSampleData {
		if c.trendStore == nil {
			return errors.New("seed command requires trend store for sample data")
		}
		if _, err := trends.SeedSampleData(ctx, c.trendStore, time.Now().UTC()); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"seed_layout":      msg.SeedLayout,
		"seed_sample_data": msg.SeedSampleData,
	})
	return nil
}
