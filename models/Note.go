package models

import "time"

// DefaultNoteTitle replaces blank titles on create and edit.
const DefaultNoteTitle = "Untitled"

// Note is a plaintext note. Locked only gates edits and moves; the content is
// always stored and returned as written.
type Note struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Content       string `gorm:"type:text" json:"content"`
	FolderID      *uint  `gorm:"index" json:"folder_id,omitempty"`
	Locked        bool   `gorm:"not null;default:false" json:"locked"`
	OwnerUsername string `gorm:"index;not null;size:64" json:"owner_username"`
	Favorite      bool   `gorm:"not null;default:false" json:"favorite"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
