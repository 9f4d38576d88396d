package theme

import (
	"strings"

	"notekeeper/models"
)

// Colour schemes a preference resolves to.
const (
	SchemeLight = "light"
	SchemeDark  = "dark"
)

// DarkLuxThreshold is the ambient light level below which the sensor
// preference switches to the dark scheme.
const DarkLuxThreshold = 20.0

// Option represents a selectable theme exposed to the UI. Label is a
// message id resolved by the caller's localizer.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// WorkspaceTheme contains resolved styling primitives for the application shell.
type WorkspaceTheme struct {
	Key               string
	Scheme            string
	BodyClass         string
	ShellClass        string
	PanelSurfaceClass string
	BorderClass       string
	MutedTextClass    string
}

var styles = map[string]WorkspaceTheme{
	SchemeDark: {
		Scheme:            SchemeDark,
		BodyClass:         "min-h-screen bg-slate-950 text-slate-100",
		ShellClass:        "workspace-shell dark",
		PanelSurfaceClass: "workspace-surface",
		BorderClass:       "workspace-border",
		MutedTextClass:    "workspace-muted",
	},
	SchemeLight: {
		Scheme:            SchemeLight,
		BodyClass:         "min-h-screen bg-stone-50 text-stone-900",
		ShellClass:        "workspace-shell light",
		PanelSurfaceClass: "workspace-surface",
		BorderClass:       "workspace-border",
		MutedTextClass:    "workspace-muted",
	},
}

var options = []Option{
	{Value: models.ThemeSystem, Label: "ThemeSystem"},
	{Value: models.ThemeLight, Label: "ThemeLight"},
	{Value: models.ThemeDark, Label: "ThemeDark"},
	{Value: models.ThemeSensor, Label: "ThemeSensor"},
}

// Resolve returns the supported preference key, falling back to system.
func Resolve(key string) string {
	return models.NormalizeTheme(key)
}

// Options exposes the available theme selections for rendering in a form control.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// ResolveAmbient picks the scheme for an ambient light reading in lux.
func ResolveAmbient(lux float64) string {
	if lux < DarkLuxThreshold {
		return SchemeDark
	}
	return SchemeLight
}

// Scheme resolves a preference to a concrete scheme. systemDark is the
// platform setting used by the system preference; lux is only consulted
// for the sensor preference and a nil reading falls back to systemDark.
func Scheme(key string, systemDark bool, lux *float64) string {
	switch Resolve(key) {
	case models.ThemeLight:
		return SchemeLight
	case models.ThemeDark:
		return SchemeDark
	case models.ThemeSensor:
		if lux != nil {
			return ResolveAmbient(*lux)
		}
	}
	if systemDark {
		return SchemeDark
	}
	return SchemeLight
}

// Styles returns the shell classes for a preference resolved with Scheme.
func Styles(key string, systemDark bool, lux *float64) WorkspaceTheme {
	scheme := Scheme(key, systemDark, lux)
	styled := styles[scheme]
	styled.Key = Resolve(key)
	return styled
}

// PrefersDark interprets the Sec-CH-Prefers-Color-Scheme client hint.
func PrefersDark(hint string) bool {
	return strings.EqualFold(strings.Trim(strings.TrimSpace(hint), `"`), SchemeDark)
}
