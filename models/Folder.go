package models

import (
	"strings"
	"time"
)

// Folder colour tags.
const (
	FolderWhite  = "white"
	FolderBlack  = "black"
	FolderBlue   = "blue"
	FolderGreen  = "green"
	FolderYellow = "yellow"
	FolderOrange = "orange"
	FolderGold   = "gold"

	DefaultFolderColor = FolderWhite
)

// FavoritesFolderID is the virtual folder used to list favorite notes.
// No folder row ever carries this id.
const FavoritesFolderID = -1

// DefaultFolderLabel is shown for notes that are not filed in a folder.
const DefaultFolderLabel = "General"

// Folder groups notes for a single owner.
type Folder struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	OwnerUsername string `gorm:"index;not null;size:64" json:"owner_username"`
	Color         string `gorm:"type:varchar(16);not null;default:white" json:"color"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var folderColors = []string{
	FolderWhite,
	FolderBlack,
	FolderBlue,
	FolderGreen,
	FolderYellow,
	FolderOrange,
	FolderGold,
}

// FolderColors lists the selectable colour tags in display order.
func FolderColors() []string {
	out := make([]string, len(folderColors))
	copy(out, folderColors)
	return out
}

// ValidFolderColor reports whether value is a known colour tag.
func ValidFolderColor(value string) bool {
	for _, c := range folderColors {
		if c == value {
			return true
		}
	}
	return false
}

// NormalizeFolderColor maps unknown or blank values to DefaultFolderColor.
func NormalizeFolderColor(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if ValidFolderColor(normalized) {
		return normalized
	}
	return DefaultFolderColor
}

// FolderContentColor returns the text colour that stays readable on a folder tag.
func FolderContentColor(color string) string {
	switch color {
	case FolderBlack, FolderBlue:
		return FolderWhite
	default:
		return FolderBlack
	}
}
