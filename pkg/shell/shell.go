package shell

import (
	"context"
	"errors"
	"sort"

	core "github.com/sustainatrend/trendboard/components/dashboard"
	dashboardpkg "github.com/sustainatrend/trendboard/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the host navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures navigation link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the dashboard service and navigation into a host application.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	// Items overrides the navigation entries; when empty the built-in
	// dashboard pages are used.
	Items []MenuItem
}

// Shell exposes helpers for applications embedding the trend dashboard.
type Shell struct {
	cfg   Config
	items []MenuItem
}

// New creates a Shell that can seed navigation menus.
func New(cfg Config) (*Shell, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("shell: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "main"
	}
	items := cfg.Items
	if len(items) == 0 {
		items = defaultMenuItems()
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return &Shell{cfg: cfg, items: items}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (s *Shell) Dashboard() *dashboardpkg.Service {
	if !s.cfg.EnableDashboard {
		return nil
	}
	return s.cfg.Service
}

// Bootstrap seeds menu entries when dashboard support is enabled.
func (s *Shell) Bootstrap(ctx context.Context) error {
	if !s.cfg.EnableDashboard || s.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range s.items {
		if err := s.cfg.MenuBuilder.EnsureMenuItem(ctx, s.cfg.MenuCode, item); err != nil {
			return err
		}
	}
	return nil
}

// NavState is the rendered navigation for one viewer.
type NavState struct {
	Collapsed bool
	Items     []MenuItem
}

// Nav returns the navigation honoring the viewer's collapse preference.
func (s *Shell) Nav(prefs core.ViewerPreferences) NavState {
	items := make([]MenuItem, len(s.items))
	copy(items, s.items)
	return NavState{
		Collapsed: prefs.NavCollapsed,
		Items:     items,
	}
}

func defaultMenuItems() []MenuItem {
	pages := core.DefaultPageDefinitions()
	items := make([]MenuItem, 0, len(pages))
	for i, page := range pages {
		items = append(items, MenuItem{
			Label:    page.Name,
			Route:    page.Code,
			Icon:     pageIcon(page.Code),
			Position: i,
		})
	}
	return items
}

func pageIcon(code string) string {
	switch code {
	case "st.page.overview":
		return "leaf"
	case "st.page.realestate":
		return "building"
	case "st.page.strategy":
		return "target"
	default:
		return "grid"
	}
}
