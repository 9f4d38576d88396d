package pages

import (
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"

	"notekeeper/internal/views/components"
)

const notePreviewRunes = 280

// NotePreview shortens long note bodies for the list view.
func NotePreview(content string) string {
	trimmed := strings.TrimSpace(content)
	if utf8.RuneCountInString(trimmed) <= notePreviewRunes {
		return trimmed
	}
	runes := []rune(trimmed)
	return strings.TrimSpace(string(runes[:notePreviewRunes])) + "…"
}

// PreferenceStatus renders the inline banner returned after a settings change.
func PreferenceStatus(message string) templ.Component {
	return components.Flash(message, "success")
}
