package dashboard

import (
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// ThemeSelection carries resolved theme details: design tokens, the chart
// theme passed to the chart providers, and a variant name. Toggling dark
// mode swaps the selection; tile instances themselves are untouched and
// charts pick up the new theme through the render cache key.
type ThemeSelection struct {
	Name       string
	Variant    string
	Tokens     map[string]string
	ChartTheme string
}

// ThemeCatalog holds the available theme variants for a deployment.
type ThemeCatalog struct {
	Light *ThemeSelection
	Dark  *ThemeSelection
}

// DefaultThemeCatalog returns the stock SustainaTrend light/dark pair.
func DefaultThemeCatalog() *ThemeCatalog {
	return &ThemeCatalog{
		Light: &ThemeSelection{
			Name:    "sustainatrend",
			Variant: "light",
			Tokens: map[string]string{
				"st-bg":           "#f8faf9",
				"st-surface":      "#ffffff",
				"st-text":         "#1d2b26",
				"st-muted":        "#5f7268",
				"st-primary":      "#2e7d55",
				"st-improved":     "#1fa36b",
				"st-declined":     "#d64545",
				"st-grid":         "#e3e9e6",
				"st-toast-bg":     "#243430",
				"st-alert-accent": "#c77d1f",
			},
			ChartTheme: types.ThemeWesteros,
		},
		Dark: &ThemeSelection{
			Name:    "sustainatrend",
			Variant: "dark",
			Tokens: map[string]string{
				"st-bg":           "#101815",
				"st-surface":      "#1a2420",
				"st-text":         "#e4ece8",
				"st-muted":        "#8fa39a",
				"st-primary":      "#3f9d6f",
				"st-improved":     "#32c387",
				"st-declined":     "#e06c6c",
				"st-grid":         "#27332e",
				"st-toast-bg":     "#0b110f",
				"st-alert-accent": "#e09a3d",
			},
			ChartTheme: types.ThemeChalk,
		},
	}
}

// Select returns the selection matching the viewer's dark-mode preference.
func (c *ThemeCatalog) Select(dark bool) *ThemeSelection {
	if c == nil {
		c = DefaultThemeCatalog()
	}
	if dark {
		return c.Dark
	}
	return c.Light
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil || len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	var builder strings.Builder
	for key, value := range vars {
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

// ResolveChartTheme returns the chart theme, defaulting to the light stock
// theme when the selection is nil.
func (theme *ThemeSelection) ResolveChartTheme() string {
	if theme == nil || theme.ChartTheme == "" {
		return types.ThemeWesteros
	}
	return theme.ChartTheme
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}
