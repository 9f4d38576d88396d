// Package components holds the small reusable fragments of the workspace pages.
package components

// SidebarLink is a folder context entry in the sidebar.
type SidebarLink struct {
	Label   string
	Path    string
	Section string
	Color   string
}

// SidebarData drives the sidebar rendering.
type SidebarData struct {
	Title   string
	Active  string
	Links   []SidebarLink
	Footer  []SidebarLink
	Message string
}

// NoteCardData is a note prepared for display.
type NoteCardData struct {
	ID          uint
	Title       string
	Content     string
	FolderLabel string
	FolderColor string
	Locked      bool
	Favorite    bool
	LockedLabel string
}

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}

func flashKind(kind string) string {
	if kind == "" {
		return "info"
	}
	return kind
}
