package pages

import (
	"strconv"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"notekeeper/internal/i18n"
	"notekeeper/internal/views/components"
	"notekeeper/models"
)

func translator(l *goi18n.Localizer) func(string) string {
	return func(id string) string { return i18n.T(l, id) }
}

func sidebarData(snapshot WorkspaceSnapshot, section string, t func(string) string) components.SidebarData {
	active := snapshot.ActiveContext()
	if section == SectionSettings {
		active = SectionSettings
	}
	links := []components.SidebarLink{{Label: t("AllNotes"), Path: "/app", Section: "all"}}
	if snapshot.ShowFavorites() {
		links = append(links, components.SidebarLink{
			Label:   t("Favorites"),
			Path:    "/app?folder=" + strconv.Itoa(models.FavoritesFolderID),
			Section: "favorites",
		})
	}
	for _, folder := range snapshot.Folders {
		links = append(links, components.SidebarLink{
			Label:   folder.Name,
			Path:    "/app?folder=" + strconv.FormatUint(uint64(folder.ID), 10),
			Section: FolderSection(folder.ID),
			Color:   folder.Color,
		})
	}
	return components.SidebarData{
		Title:  t("AppName"),
		Active: active,
		Links:  links,
		Footer: []components.SidebarLink{
			{Label: t("Settings"), Path: "/app/settings", Section: SectionSettings},
			{Label: t("SignOut"), Path: "/logout", Section: "logout"},
		},
	}
}

func contextTitle(snapshot WorkspaceSnapshot, t func(string) string) string {
	switch active := snapshot.ActiveContext(); active {
	case "all":
		return t("AllNotes")
	case "favorites":
		return t("Favorites")
	default:
		for _, folder := range snapshot.Folders {
			if FolderSection(folder.ID) == active {
				return folder.Name
			}
		}
		return t("Notes")
	}
}

// displayFolderLabel localises the unfiled label and keeps real folder names.
func displayFolderLabel(label string, t func(string) string) string {
	if label == models.DefaultFolderLabel {
		return t("General")
	}
	return label
}

func noteCardData(snapshot WorkspaceSnapshot, note models.Note, t func(string) string) components.NoteCardData {
	return components.NoteCardData{
		ID:          note.ID,
		Title:       note.Title,
		Content:     NotePreview(note.Content),
		FolderLabel: displayFolderLabel(snapshot.FolderLabel(note), t),
		FolderColor: snapshot.FolderColor(note),
		Locked:      note.Locked,
		Favorite:    note.Favorite,
		LockedLabel: t("Locked"),
	}
}
