package pages

import (
	"strconv"

	"notekeeper/internal/store"
	"notekeeper/internal/workspace"
	"notekeeper/models"
)

// WorkspaceSnapshot aggregates what the workspace page renders for one user.
type WorkspaceSnapshot struct {
	Username string
	Theme    string
	Section  string
	Folders  []models.Folder
	Notes    []models.Note
	FolderID *int
	Counts   store.NoteCounts
	Message  string
}

// NewWorkspaceSnapshot bundles the listing for a folder context. Notes keep
// the newest-first order they were loaded in.
func NewWorkspaceSnapshot(username, theme string, folders []models.Folder, notes []models.Note, folderID *int) WorkspaceSnapshot {
	return WorkspaceSnapshot{
		Username: username,
		Theme:    models.NormalizeTheme(theme),
		Section:  defaultWorkspaceSection,
		Folders:  folders,
		Notes:    notes,
		FolderID: folderID,
	}
}

// EmptyWorkspaceSnapshot returns a zero-value snapshot to simplify call sites when no data is available.
func EmptyWorkspaceSnapshot() WorkspaceSnapshot {
	return WorkspaceSnapshot{Theme: models.DefaultTheme, Section: defaultWorkspaceSection}
}

// ActiveContext names the selected folder context: all, favorites or folder-<id>.
func (s WorkspaceSnapshot) ActiveContext() string {
	switch {
	case s.FolderID == nil:
		return "all"
	case *s.FolderID == models.FavoritesFolderID:
		return "favorites"
	default:
		return FolderSection(uint(*s.FolderID))
	}
}

// FolderSection is the sidebar section key for a folder.
func FolderSection(id uint) string {
	return "folder-" + strconv.FormatUint(uint64(id), 10)
}

// FolderColor returns the colour tag of the note's folder, white when unfiled.
func (s WorkspaceSnapshot) FolderColor(note models.Note) string {
	if note.FolderID == nil {
		return models.DefaultFolderColor
	}
	for _, folder := range s.Folders {
		if folder.ID == *note.FolderID {
			return folder.Color
		}
	}
	return models.DefaultFolderColor
}

// FolderLabel names the note's folder.
func (s WorkspaceSnapshot) FolderLabel(note models.Note) string {
	return workspace.FolderLabel(s.Folders, note)
}

// ShowFavorites reports whether the favorites context should be listed.
func (s WorkspaceSnapshot) ShowFavorites() bool {
	return s.Counts.Favorites > 0 || workspace.HasFavorites(s.Notes)
}

// WorkspaceSeed is the JSON hydration payload embedded in the workspace page.
type WorkspaceSeed struct {
	Username string          `json:"username"`
	Theme    string          `json:"theme"`
	FolderID *int            `json:"folder_id"`
	Folders  []models.Folder `json:"folders"`
	Notes    []models.Note   `json:"notes"`
}

// Seed returns the snapshot for client-side hydration, with empty collections
// instead of nulls.
func (s WorkspaceSnapshot) Seed() WorkspaceSeed {
	seed := WorkspaceSeed{
		Username: s.Username,
		Theme:    s.Theme,
		FolderID: s.FolderID,
		Folders:  s.Folders,
		Notes:    s.Notes,
	}
	if seed.Folders == nil {
		seed.Folders = []models.Folder{}
	}
	if seed.Notes == nil {
		seed.Notes = []models.Note{}
	}
	return seed
}
