package models

import (
	"strings"
	"time"
)

// Theme preferences a user can pick in settings.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSensor = "sensor"

	DefaultTheme = ThemeSystem
)

// User represents an account that owns folders and notes.
type User struct {
	Username     string `gorm:"primaryKey;size:64" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Theme        string `gorm:"type:varchar(16);not null;default:system" json:"theme"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountStamp identifies this registration of the username. Sessions and
// tokens carry it and stop working once it no longer matches the stored row.
func (u *User) AccountStamp() int64 {
	return u.CreatedAt.UnixMicro()
}

// ValidTheme reports whether value is one of the supported theme keys.
func ValidTheme(value string) bool {
	switch value {
	case ThemeSystem, ThemeLight, ThemeDark, ThemeSensor:
		return true
	}
	return false
}

// NormalizeTheme returns the trimmed, lower-cased theme key or DefaultTheme when unsupported.
func NormalizeTheme(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if ValidTheme(normalized) {
		return normalized
	}
	return DefaultTheme
}
