package workspace

import (
	"context"
	"errors"
	"fmt"

	"notekeeper/internal/store"
	"notekeeper/models"
)

// NotesByContext lists the notes visible in a folder context: every note when
// folderID is nil, favorites for FavoritesFolderID, otherwise one folder.
func (s *Service) NotesByContext(ctx context.Context, username string, folderID *int) ([]models.Note, error) {
	switch {
	case folderID == nil:
		return s.store.ListNotes(ctx, username)
	case *folderID == models.FavoritesFolderID:
		return s.store.ListFavoriteNotes(ctx, username)
	case *folderID <= 0:
		return nil, ErrInvalidFolder
	default:
		return s.store.ListNotesByFolder(ctx, username, uint(*folderID))
	}
}

// Note returns a single note owned by username.
func (s *Service) Note(ctx context.Context, username string, id uint) (*models.Note, error) {
	return s.store.GetNote(ctx, username, id)
}

// FolderLabel names the folder a note is filed in.
func FolderLabel(folders []models.Folder, note models.Note) string {
	if note.FolderID == nil {
		return models.DefaultFolderLabel
	}
	for _, folder := range folders {
		if folder.ID == *note.FolderID {
			return folder.Name
		}
	}
	return models.DefaultFolderLabel
}

// HasFavorites reports whether any note in the list is a favorite.
func HasFavorites(notes []models.Note) bool {
	for _, note := range notes {
		if note.Favorite {
			return true
		}
	}
	return false
}

// AddNote creates a note. Adding to the favorites folder files the note
// nowhere and marks it favorite.
func (s *Service) AddNote(ctx context.Context, username, title, content string, folderID *int) (*models.Note, error) {
	note := &models.Note{
		Title:         noteTitle(s.sanitize(title)),
		Content:       content,
		OwnerUsername: username,
	}
	err := s.asOwner(ctx, username, func(tx *store.Store) error {
		if folderID != nil && *folderID == models.FavoritesFolderID {
			note.Favorite = true
		} else {
			target, err := resolveFolder(ctx, tx, username, folderID)
			if err != nil {
				return err
			}
			note.FolderID = target
		}
		if err := tx.CreateNote(ctx, note); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote replaces title and content of an unlocked note.
func (s *Service) UpdateNote(ctx context.Context, username string, id uint, title, content string) (*models.Note, error) {
	note, err := s.unlockedNote(ctx, username, id)
	if err != nil {
		return nil, err
	}
	note.Title = noteTitle(s.sanitize(title))
	note.Content = content
	if err := s.store.UpdateNoteContent(ctx, username, id, note.Title, note.Content); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a note whether or not it is locked.
func (s *Service) DeleteNote(ctx context.Context, username string, id uint) error {
	return s.store.DeleteNote(ctx, username, id)
}

// MoveNote files an unlocked note in folderID, or unfiles it when nil.
func (s *Service) MoveNote(ctx context.Context, username string, id uint, folderID *int) (*models.Note, error) {
	note, err := s.unlockedNote(ctx, username, id)
	if err != nil {
		return nil, err
	}
	target, err := resolveFolder(ctx, s.store, username, folderID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateNoteFolder(ctx, username, id, target); err != nil {
		return nil, err
	}
	note.FolderID = target
	return note, nil
}

// ToggleLock flips the lock flag. Locking is unconditional; unlocking
// requires the account password. The content is left untouched either way.
func (s *Service) ToggleLock(ctx context.Context, username string, id uint, password string) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if note.Locked {
		if err := s.VerifyPassword(ctx, username, password); err != nil {
			return nil, err
		}
	}
	note.Locked = !note.Locked
	if err := s.store.UpdateNoteLock(ctx, username, id, note.Locked); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) ToggleFavorite(ctx context.Context, username string, id uint) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, username, id)
	if err != nil {
		return nil, err
	}
	note.Favorite = !note.Favorite
	if err := s.store.UpdateNoteFavorite(ctx, username, id, note.Favorite); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) unlockedNote(ctx context.Context, username string, id uint) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if note.Locked {
		return nil, ErrNoteLocked
	}
	return note, nil
}

// resolveFolder maps a transport folder id to a folder owned by username.
// The favorites sentinel is not a real folder and is rejected.
func resolveFolder(ctx context.Context, st *store.Store, username string, folderID *int) (*uint, error) {
	if folderID == nil {
		return nil, nil
	}
	if *folderID <= 0 {
		return nil, ErrInvalidFolder
	}
	folder, err := st.GetFolder(ctx, username, uint(*folderID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidFolder
		}
		return nil, fmt.Errorf("lookup folder: %w", err)
	}
	id := folder.ID
	return &id, nil
}

// asOwner runs fn in a transaction holding a shared lock on the owner's row.
// Writes for an account that is gone, or is being deleted, fail with
// ErrUnknownAccount instead of leaving rows behind for a later registration
// of the same name.
func (s *Service) asOwner(ctx context.Context, username string, fn func(tx *store.Store) error) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.LockUser(ctx, username, false); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownAccount
			}
			return fmt.Errorf("lock owner: %w", err)
		}
		return fn(tx)
	})
}
