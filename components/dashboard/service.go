package dashboard

import (
	"context"
	"errors"
)

var defaultPages = []string{
	"st.page.overview",
	"st.page.realestate",
	"st.page.strategy",
}

var (
	errMissingTileStore  = errors.New("dashboard: tile store not configured")
	errInvalidPage       = errors.New("dashboard: page code is required")
	errInvalidDefinition = errors.New("dashboard: definition id is required")
)

// Options configures the dashboard Service. Every collaborator is provided
// via interface so applications can swap implementations without importing
// internal packages.
type Options struct {
	TileStore       TileStore
	Authorizer      Authorizer
	PreferenceStore PreferenceStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Toasts          *ToastCenter
	Themes          *ThemeCatalog
	Pages           []string
}

// Service orchestrates the SustainaTrend dashboard pages and tiles.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.Themes == nil {
		opts.Themes = DefaultThemeCatalog()
	}
	return &Service{opts: opts}
}

// Toasts exposes the configured toast center, if any.
func (s *Service) Toasts() *ToastCenter {
	return s.opts.Toasts
}

// AddTileRequest captures the data required to create tile assignments.
type AddTileRequest struct {
	DefinitionID  string
	PageCode      string
	Configuration map[string]any
	Position      *int
	Roles         []string
	UserID        string
}

// AddTile creates a tile instance and assigns it to a page.
func (s *Service) AddTile(ctx context.Context, req AddTileRequest) error {
	store, err := s.tileStore()
	if err != nil {
		return err
	}
	if req.PageCode == "" {
		return errInvalidPage
	}
	if req.DefinitionID == "" {
		return errInvalidDefinition
	}
	if err := s.validateConfiguration(req.DefinitionID, req.Configuration); err != nil {
		return err
	}
	instance, err := store.CreateInstance(ctx, CreateTileInstanceInput{
		DefinitionID:  req.DefinitionID,
		Configuration: req.Configuration,
		Visibility:    TileVisibility{Roles: req.Roles},
		Metadata:      map[string]any{"user_id": req.UserID},
	})
	if err != nil {
		return err
	}
	if err := store.AssignInstance(ctx, AssignTileInput{
		PageCode:   req.PageCode,
		InstanceID: instance.ID,
		Position:   req.Position,
	}); err != nil {
		return err
	}
	if err := s.opts.RefreshHook.TileUpdated(ctx, TileEvent{
		PageCode: req.PageCode,
		Instance: instance,
		Reason:   "add",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.tile.add", map[string]any{
		"page_code":     req.PageCode,
		"definition_id": req.DefinitionID,
	})
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// RemoveTile deletes the tile instance.
func (s *Service) RemoveTile(ctx context.Context, tileID string) error {
	store, err := s.tileStore()
	if err != nil {
		return err
	}
	if tileID == "" {
		return errors.New("dashboard: tile id is required")
	}
	if err := store.DeleteInstance(ctx, tileID); err != nil {
		return err
	}
	if err := s.opts.RefreshHook.TileUpdated(ctx, TileEvent{
		Instance: TileInstance{ID: tileID},
		Reason:   "delete",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.tile.remove", map[string]any{"tile_id": tileID})
	return nil
}

// ReorderTiles changes tile ordering within a page.
func (s *Service) ReorderTiles(ctx context.Context, pageCode string, tileIDs []string) error {
	store, err := s.tileStore()
	if err != nil {
		return err
	}
	if pageCode == "" {
		return errInvalidPage
	}
	if err := store.ReorderPage(ctx, ReorderPageInput{
		PageCode: pageCode,
		TileIDs:  tileIDs,
	}); err != nil {
		return err
	}
	if err := s.opts.RefreshHook.TileUpdated(ctx, TileEvent{
		PageCode: pageCode,
		Reason:   "reorder",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.tile.reorder", map[string]any{
		"page_code": pageCode,
		"count":     len(tileIDs),
	})
	return nil
}

// ConfigureLayout resolves tiles for each dashboard page respecting
// preferences and authorization, and attaches provider data.
func (s *Service) ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error) {
	store, err := s.tileStore()
	if err != nil {
		return Layout{}, err
	}
	prefs, err := s.opts.PreferenceStore.Preferences(ctx, viewer)
	if err != nil {
		return Layout{}, err
	}
	theme := s.opts.Themes.Select(prefs.DarkMode)
	layout := Layout{Pages: make(map[string][]TileInstance)}
	for _, page := range s.pageList() {
		resolved, err := store.ResolvePage(ctx, ResolvePageInput{
			PageCode: page,
			Audience: viewer.Roles,
		})
		if err != nil {
			return Layout{}, err
		}
		for i := range resolved.Tiles {
			resolved.Tiles[i].PageCode = page
		}
		filtered := s.filterAuthorized(ctx, viewer, theme, resolved.Tiles)
		ordered := applyOrderOverride(filtered, prefs.PageOrder[page])
		layout.Pages[page] = applyHiddenFilter(ordered, prefs.HiddenTiles)
	}
	s.recordTelemetry(ctx, "dashboard.layout.resolve", map[string]any{
		"viewer": viewer.UserID,
	})
	return layout, nil
}

// ResolvePage retrieves a single page layout for the viewer.
func (s *Service) ResolvePage(ctx context.Context, viewer ViewerContext, pageCode string) (ResolvedPage, error) {
	store, err := s.tileStore()
	if err != nil {
		return ResolvedPage{}, err
	}
	prefs, err := s.opts.PreferenceStore.Preferences(ctx, viewer)
	if err != nil {
		return ResolvedPage{}, err
	}
	resolved, err := store.ResolvePage(ctx, ResolvePageInput{
		PageCode: pageCode,
		Audience: viewer.Roles,
	})
	if err != nil {
		return ResolvedPage{}, err
	}
	resolved.Tiles = s.filterAuthorized(ctx, viewer, s.opts.Themes.Select(prefs.DarkMode), resolved.Tiles)
	s.recordTelemetry(ctx, "dashboard.page.resolve", map[string]any{
		"viewer":    viewer.UserID,
		"page_code": pageCode,
	})
	return resolved, nil
}

func (s *Service) tileStore() (TileStore, error) {
	if s.opts.TileStore == nil {
		return nil, errMissingTileStore
	}
	return s.opts.TileStore, nil
}

func (s *Service) validateConfiguration(definitionID string, config map[string]any) error {
	if s.opts.ConfigValidator == nil || s.opts.Providers == nil {
		return nil
	}
	def, ok := s.opts.Providers.Definition(definitionID)
	if !ok {
		return nil
	}
	return s.opts.ConfigValidator.Validate(def, config)
}

func (s *Service) pageList() []string {
	if len(s.opts.Pages) > 0 {
		return s.opts.Pages
	}
	return defaultPages
}

func (s *Service) filterAuthorized(ctx context.Context, viewer ViewerContext, theme *ThemeSelection, tiles []TileInstance) []TileInstance {
	if len(tiles) == 0 {
		return tiles
	}
	var filtered []TileInstance
	for _, tile := range tiles {
		if s.opts.Authorizer.CanViewTile(ctx, viewer, tile) {
			filtered = append(filtered, tile)
		}
	}
	return s.attachProviderData(ctx, viewer, theme, filtered)
}

func (s *Service) attachProviderData(ctx context.Context, viewer ViewerContext, theme *ThemeSelection, tiles []TileInstance) []TileInstance {
	if len(tiles) == 0 || s.opts.Providers == nil {
		return tiles
	}
	enriched := make([]TileInstance, len(tiles))
	copy(enriched, tiles)
	for i, inst := range enriched {
		provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
		if !ok || provider == nil {
			continue
		}
		data, err := provider.Fetch(ctx, TileContext{
			Instance: inst,
			Viewer:   viewer,
			Theme:    theme,
		})
		if err != nil {
			s.recordTelemetry(ctx, "dashboard.tile.provider_error", map[string]any{
				"definition_id": inst.DefinitionID,
				"error":         err.Error(),
			})
			if s.opts.Toasts != nil {
				s.opts.Toasts.Error("Tile failed", "Failed to load "+inst.DefinitionID)
			}
			continue
		}
		if enriched[i].Metadata == nil {
			enriched[i].Metadata = map[string]any{}
		}
		enriched[i].Metadata["data"] = data
	}
	return enriched
}

// NotifyTileUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyTileUpdated(ctx context.Context, event TileEvent) error {
	if err := s.opts.RefreshHook.TileUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.tile.event", map[string]any{
		"page_code": event.PageCode,
		"tile_id":   event.Instance.ID,
		"reason":    event.Reason,
	})
	return nil
}

// SavePreferences persists per-viewer UI preferences.
func (s *Service) SavePreferences(ctx context.Context, viewer ViewerContext, prefs ViewerPreferences) error {
	if viewer.UserID == "" {
		return errors.New("dashboard: viewer context missing user id")
	}
	normalizePreferences(&prefs)
	if err := s.opts.PreferenceStore.SavePreferences(ctx, viewer, prefs); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.preferences.save", map[string]any{
		"viewer":    viewer.UserID,
		"dark_mode": prefs.DarkMode,
	})
	return nil
}

// Preferences loads the viewer's stored UI preferences.
func (s *Service) Preferences(ctx context.Context, viewer ViewerContext) (ViewerPreferences, error) {
	return s.opts.PreferenceStore.Preferences(ctx, viewer)
}

func normalizePreferences(prefs *ViewerPreferences) {
	if prefs.PageOrder == nil {
		prefs.PageOrder = map[string][]string{}
	}
	if prefs.HiddenTiles == nil {
		prefs.HiddenTiles = map[string]bool{}
	}
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewTile(context.Context, ViewerContext, TileInstance) bool {
	return true
}

type noopRefreshHook struct{}

func (noopRefreshHook) TileUpdated(context.Context, TileEvent) error {
	return nil
}
