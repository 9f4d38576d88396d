package layout

import (
	"notekeeper/models"
)

// ThemeDefinition describes a theme preference shown on the settings form.
// Label and Description are message ids.
type ThemeDefinition struct {
	ID          string
	Label       string
	Description string
}

var themeRegistry = map[string]ThemeDefinition{
	models.ThemeSystem: {
		ID:          models.ThemeSystem,
		Label:       "ThemeSystem",
		Description: "ThemeSystemDescription",
	},
	models.ThemeLight: {
		ID:          models.ThemeLight,
		Label:       "ThemeLight",
		Description: "ThemeLightDescription",
	},
	models.ThemeDark: {
		ID:          models.ThemeDark,
		Label:       "ThemeDark",
		Description: "ThemeDarkDescription",
	},
	models.ThemeSensor: {
		ID:          models.ThemeSensor,
		Label:       "ThemeSensor",
		Description: "ThemeSensorDescription",
	},
}

var themeOrder = []string{models.ThemeSystem, models.ThemeLight, models.ThemeDark, models.ThemeSensor}

// ThemeByID returns a definition for the provided identifier, falling back to the default theme.
func ThemeByID(id string) ThemeDefinition {
	if def, ok := themeRegistry[id]; ok {
		return def
	}
	return themeRegistry[models.DefaultTheme]
}

// ThemeOptions exposes all theme definitions in settings order.
func ThemeOptions() []ThemeDefinition {
	options := make([]ThemeDefinition, 0, len(themeOrder))
	for _, id := range themeOrder {
		options = append(options, themeRegistry[id])
	}
	return options
}
