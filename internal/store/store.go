package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notekeeper/models"
)

var (
	// ErrNotFound is returned when a lookup or mutation matches no row owned by the caller.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateUser is returned when a username is already registered.
	ErrDuplicateUser = errors.New("store: username already exists")
	// ErrNoteLocked is returned when an edit or move targets a locked note.
	ErrNoteLocked = errors.New("store: note is locked")
	// ErrNoDatabase is returned when the store was built without a handle.
	ErrNoDatabase = errors.New("store: database not configured")
)

// NoteCounts summarises a user's notes.
type NoteCounts struct {
	Total     int64 `json:"total"`
	Favorites int64 `json:"favorites"`
	Locked    int64 `json:"locked"`
	Folders   int64 `json:"folders"`
}

// Store is the data-access layer over the users, folders and notes tables.
// Every note and folder query is scoped by owner username.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNoDatabase
	}
	return s.db.WithContext(ctx), nil
}

// Transaction runs fn against a store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrNoDatabase
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

func (s *Store) GetUser(ctx context.Context, username string) (*models.User, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	user := &models.User{}
	if err := db.Where("username = ?", username).Limit(1).First(user).Error; err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// LockUser reads the user row and locks it until the surrounding transaction
// ends: shared for writers of owned rows, exclusive for the account delete.
// SQLite has no row locks and serialises writers on its own.
func (s *Store) LockUser(ctx context.Context, username string, exclusive bool) (*models.User, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	strength := clause.LockingStrengthShare
	if exclusive {
		strength = clause.LockingStrengthUpdate
	}
	user := &models.User{}
	if err := db.Clauses(clause.Locking{Strength: strength}).Where("username = ?", username).First(user).Error; err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// CreateUser inserts a user and aborts with ErrDuplicateUser on conflict.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateUser
	}
	return nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username, passwordHash string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return affected(db.Model(&models.User{}).Where("username = ?", username).Update("password_hash", passwordHash))
}

func (s *Store) UpdateUserTheme(ctx context.Context, username, theme string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return affected(db.Model(&models.User{}).Where("username = ?", username).Update("theme", theme))
}

// DeleteUser removes the user together with all of their notes and folders.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.LockUser(ctx, username, true); err != nil {
			return err
		}
		if _, err := tx.DeleteUserNotes(ctx, username); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if _, err := tx.DeleteUserFolders(ctx, username); err != nil {
			return fmt.Errorf("delete folders: %w", err)
		}
		return affected(tx.db.WithContext(ctx).Where("username = ?", username).Delete(&models.User{}))
	})
}

func (s *Store) DeleteUserNotes(ctx context.Context, username string) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	result := db.Where("owner_username = ?", username).Delete(&models.Note{})
	return result.RowsAffected, result.Error
}

func (s *Store) DeleteUserFolders(ctx context.Context, username string) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	result := db.Where("owner_username = ?", username).Delete(&models.Folder{})
	return result.RowsAffected, result.Error
}

// Notes

func (s *Store) ListNotes(ctx context.Context, username string) ([]models.Note, error) {
	return s.findNotes(ctx, "owner_username = ?", username)
}

func (s *Store) ListNotesByFolder(ctx context.Context, username string, folderID uint) ([]models.Note, error) {
	return s.findNotes(ctx, "folder_id = ? AND owner_username = ?", folderID, username)
}

func (s *Store) ListFavoriteNotes(ctx context.Context, username string) ([]models.Note, error) {
	return s.findNotes(ctx, "favorite = ? AND owner_username = ?", true, username)
}

func (s *Store) findNotes(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0)
	if err := db.Where(query, args...).Order("id desc").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, username string, id uint) (*models.Note, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	note := &models.Note{}
	if err := db.Where("id = ? AND owner_username = ?", id, username).First(note).Error; err != nil {
		return nil, notFound(err)
	}
	return note, nil
}

func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(note).Error
}

func (s *Store) DeleteNote(ctx context.Context, username string, id uint) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return affected(db.Where("id = ? AND owner_username = ?", id, username).Delete(&models.Note{}))
}

// UpdateNoteContent rewrites an unlocked note. The lock is part of the
// update's condition, so a note locked after it was read is left untouched.
func (s *Store) UpdateNoteContent(ctx context.Context, username string, id uint, title, content string) error {
	return s.updateUnlockedNote(ctx, username, id, map[string]any{"title": title, "content": content})
}

// UpdateNoteFolder files an unlocked note in folderID, or unfiles it when folderID is nil.
func (s *Store) UpdateNoteFolder(ctx context.Context, username string, id uint, folderID *uint) error {
	return s.updateUnlockedNote(ctx, username, id, map[string]any{"folder_id": folderID})
}

func (s *Store) UpdateNoteLock(ctx context.Context, username string, id uint, locked bool) error {
	return s.updateNote(ctx, username, id, map[string]any{"locked": locked})
}

func (s *Store) UpdateNoteFavorite(ctx context.Context, username string, id uint, favorite bool) error {
	return s.updateNote(ctx, username, id, map[string]any{"favorite": favorite})
}

func (s *Store) updateNote(ctx context.Context, username string, id uint, updates map[string]any) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return affected(db.Model(&models.Note{}).Where("id = ? AND owner_username = ?", id, username).Updates(updates))
}

func (s *Store) updateUnlockedNote(ctx context.Context, username string, id uint, updates map[string]any) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&models.Note{}).
		Where("id = ? AND owner_username = ? AND locked = ?", id, username, false).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if _, err := s.GetNote(ctx, username, id); err != nil {
		return err
	}
	return ErrNoteLocked
}

// CountNotes returns the totals shown on the account screen.
func (s *Store) CountNotes(ctx context.Context, username string) (NoteCounts, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return NoteCounts{}, err
	}
	var counts NoteCounts
	notes := db.Model(&models.Note{}).Where("owner_username = ?", username)
	if err := notes.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return NoteCounts{}, err
	}
	if err := notes.Session(&gorm.Session{}).Where("favorite = ?", true).Count(&counts.Favorites).Error; err != nil {
		return NoteCounts{}, err
	}
	if err := notes.Session(&gorm.Session{}).Where("locked = ?", true).Count(&counts.Locked).Error; err != nil {
		return NoteCounts{}, err
	}
	if err := db.Model(&models.Folder{}).Where("owner_username = ?", username).Count(&counts.Folders).Error; err != nil {
		return NoteCounts{}, err
	}
	return counts, nil
}

// Folders

func (s *Store) ListFolders(ctx context.Context, username string) ([]models.Folder, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	folders := make([]models.Folder, 0)
	if err := db.Where("owner_username = ?", username).Order("id desc").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (s *Store) GetFolder(ctx context.Context, username string, id uint) (*models.Folder, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	folder := &models.Folder{}
	if err := db.Where("id = ? AND owner_username = ?", id, username).First(folder).Error; err != nil {
		return nil, notFound(err)
	}
	return folder, nil
}

func (s *Store) CreateFolder(ctx context.Context, folder *models.Folder) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(folder).Error
}

func (s *Store) UpdateFolder(ctx context.Context, username string, id uint, name, color string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return affected(db.Model(&models.Folder{}).
		Where("id = ? AND owner_username = ?", id, username).
		Updates(map[string]any{"name": name, "color": color}))
}

// DeleteFolder removes the folder and every note filed in it.
func (s *Store) DeleteFolder(ctx context.Context, username string, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.db.WithContext(ctx)
		if err := db.Where("folder_id = ? AND owner_username = ?", id, username).Delete(&models.Note{}).Error; err != nil {
			return fmt.Errorf("delete folder notes: %w", err)
		}
		return affected(db.Where("id = ? AND owner_username = ?", id, username).Delete(&models.Folder{}))
	})
}
