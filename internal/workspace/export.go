package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notekeeper/internal/store"
	"notekeeper/models"
)

// Snapshot is a full copy of one user's folders and notes.
type Snapshot struct {
	Username   string          `json:"username"`
	Theme      string          `json:"theme"`
	ExportedAt time.Time       `json:"exported_at"`
	Folders    []models.Folder `json:"folders"`
	Notes      []models.Note   `json:"notes"`
}

// ImportedNote is one row of a bulk import. Folder names a folder by its
// display name; it is created when the user has none with that name.
type ImportedNote struct {
	Title    string
	Content  string
	Folder   string
	Favorite bool
	Locked   bool
}

// Export collects everything the user owns.
func (s *Service) Export(ctx context.Context, username string) (*Snapshot, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	folders, err := s.store.ListFolders(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	notes, err := s.store.ListNotes(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return &Snapshot{
		Username:   user.Username,
		Theme:      models.NormalizeTheme(user.Theme),
		ExportedAt: time.Now().UTC(),
		Folders:    folders,
		Notes:      notes,
	}, nil
}

// ImportNotes stores a batch of notes for an existing user. Each row runs in
// its own transaction so a bad row does not discard earlier ones; the count
// of stored rows is returned with the first error.
func (s *Service) ImportNotes(ctx context.Context, username string, rows []ImportedNote) (int, error) {
	if _, err := s.store.GetUser(ctx, username); err != nil {
		return 0, err
	}
	folderIDs := make(map[string]uint)
	folders, err := s.store.ListFolders(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("list folders: %w", err)
	}
	for _, folder := range folders {
		folderIDs[strings.ToLower(folder.Name)] = folder.ID
	}

	imported := 0
	for i, row := range rows {
		var createdKey string
		var createdID uint
		err := s.asOwner(ctx, username, func(tx *store.Store) error {
			note := &models.Note{
				Title:         noteTitle(s.sanitize(row.Title)),
				Content:       row.Content,
				OwnerUsername: username,
				Favorite:      row.Favorite,
				Locked:        row.Locked,
			}
			if name := s.sanitize(row.Folder); name != "" {
				key := strings.ToLower(name)
				id, ok := folderIDs[key]
				if !ok {
					folder := &models.Folder{Name: name, Color: models.DefaultFolderColor, OwnerUsername: username}
					if err := tx.CreateFolder(ctx, folder); err != nil {
						return fmt.Errorf("create folder %q: %w", name, err)
					}
					id = folder.ID
					createdKey, createdID = key, id
				}
				note.FolderID = &id
			}
			return tx.CreateNote(ctx, note)
		})
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", i+1, err)
		}
		if createdKey != "" {
			folderIDs[createdKey] = createdID
		}
		imported++
	}
	return imported, nil
}
