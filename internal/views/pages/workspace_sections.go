package pages

import "strings"

const (
	SectionNotes    = "notes"
	SectionSettings = "settings"

	defaultWorkspaceSection = SectionNotes
)

var workspaceSections = map[string]struct{}{
	SectionNotes:    {},
	SectionSettings: {},
}

// NormalizeWorkspaceSection lower-cases the section and falls back to notes.
func NormalizeWorkspaceSection(section string) string {
	normalized := strings.ToLower(strings.TrimSpace(section))
	if ValidWorkspaceSection(normalized) {
		return normalized
	}
	return defaultWorkspaceSection
}

func ValidWorkspaceSection(section string) bool {
	_, ok := workspaceSections[section]
	return ok
}

func DefaultWorkspaceSection() string {
	return defaultWorkspaceSection
}
