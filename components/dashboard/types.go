package dashboard

import (
	"context"
	"time"
)

// TileStore encapsulates persistence for dashboard pages and tile
// assignments. Implementations ensure thread safety and idempotency.
type TileStore interface {
	EnsurePage(ctx context.Context, def PageDefinition) (bool, error)
	EnsureDefinition(ctx context.Context, def TileDefinition) (bool, error)
	CreateInstance(ctx context.Context, input CreateTileInstanceInput) (TileInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	AssignInstance(ctx context.Context, input AssignTileInput) error
	ReorderPage(ctx context.Context, input ReorderPageInput) error
	ResolvePage(ctx context.Context, input ResolvePageInput) (ResolvedPage, error)
}

// Authorizer determines if a viewer can see a tile instance.
type Authorizer interface {
	CanViewTile(ctx context.Context, viewer ViewerContext, instance TileInstance) bool
}

// PreferenceStore keeps per-viewer UI preferences (theme, navigation,
// default filters).
type PreferenceStore interface {
	Preferences(ctx context.Context, viewer ViewerContext) (ViewerPreferences, error)
	SavePreferences(ctx context.Context, viewer ViewerContext, prefs ViewerPreferences) error
}

// ProviderRegistry stores tile definitions/providers discoverable via hooks
// or manifests.
type ProviderRegistry interface {
	RegisterDefinition(def TileDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (TileDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []TileDefinition
}

// RefreshHook notifies transports (SSE/WebSocket) about tile changes.
type RefreshHook interface {
	TileUpdated(ctx context.Context, event TileEvent) error
}

// PageDefinition models a dashboard page with its category tabs.
type PageDefinition struct {
	Code        string
	Name        string
	Description string
	Tabs        []TabDefinition
}

// TabDefinition is one category tab of a page. Category binds the tab to a
// live-update stream and to the record filter.
type TabDefinition struct {
	ID       string
	Label    string
	Category string
}

// TileDefinition describes a tile schema available to pages.
type TileDefinition struct {
	Code        string
	Name        string
	Description string
	Schema      map[string]any
	Category    string
}

// TileInstance represents a configured tile assigned to a page.
type TileInstance struct {
	ID            string
	DefinitionID  string
	PageCode      string
	Configuration map[string]any
	Metadata      map[string]any
}

// CreateTileInstanceInput configures new instances.
type CreateTileInstanceInput struct {
	DefinitionID  string
	Configuration map[string]any
	Visibility    TileVisibility
	Metadata      map[string]any
}

// TileVisibility defines runtime visibility constraints.
type TileVisibility struct {
	Roles   []string
	StartAt *time.Time
	EndAt   *time.Time
}

// AssignTileInput associates a tile instance with a page.
type AssignTileInput struct {
	PageCode   string
	InstanceID string
	Position   *int
}

// ReorderPageInput represents a new ordering for tiles within a page.
type ReorderPageInput struct {
	PageCode string
	TileIDs  []string
}

// ResolvePageInput requests tile instances for a given page and audience.
type ResolvePageInput struct {
	PageCode string
	Audience []string
}

// ResolvedPage is a container for tiles returned by the store.
type ResolvedPage struct {
	PageCode string
	Tiles    []TileInstance
}

// ViewerContext captures the active user information needed to render
// dashboards. It is passed explicitly; there is no ambient singleton.
type ViewerContext struct {
	UserID string
	Roles  []string
}

// ViewerPreferences are the persisted UI preferences of one viewer. DarkMode
// and NavCollapsed back the theme toggle and the collapsible navigation
// rail; the defaults seed a page's selection state.
type ViewerPreferences struct {
	DarkMode         bool
	NavCollapsed     bool
	DefaultCategory  string
	DefaultTimeframe string
	PageOrder        map[string][]string
	HiddenTiles      map[string]bool
}

// Layout describes the resolved tile instances per dashboard page.
type Layout struct {
	Pages map[string][]TileInstance
}

// TileEvent describes changes that transports might care about.
type TileEvent struct {
	PageCode string
	Instance TileInstance
	Reason   string
}

// TileData is the provider payload rendered into a tile.
type TileData map[string]any

// TileContext carries everything a provider needs for one fetch.
type TileContext struct {
	Instance TileInstance
	Viewer   ViewerContext
	Theme    *ThemeSelection
}

// Provider produces the data for one tile kind.
type Provider interface {
	Fetch(ctx context.Context, meta TileContext) (TileData, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, meta TileContext) (TileData, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, meta TileContext) (TileData, error) {
	return f(ctx, meta)
}
