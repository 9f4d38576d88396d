package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"notekeeper/internal/store"
	"notekeeper/models"
)

func (s *Service) Folders(ctx context.Context, username string) ([]models.Folder, error) {
	return s.store.ListFolders(ctx, username)
}

func (s *Service) AddFolder(ctx context.Context, username, name, color string) (*models.Folder, error) {
	input, err := s.folderInput(name, color)
	if err != nil {
		return nil, err
	}
	folder := &models.Folder{Name: input.Name, Color: input.Color, OwnerUsername: username}
	err = s.asOwner(ctx, username, func(tx *store.Store) error {
		if err := tx.CreateFolder(ctx, folder); err != nil {
			return fmt.Errorf("create folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *Service) UpdateFolder(ctx context.Context, username string, id uint, name, color string) (*models.Folder, error) {
	input, err := s.folderInput(name, color)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateFolder(ctx, username, id, input.Name, input.Color); err != nil {
		return nil, err
	}
	return s.store.GetFolder(ctx, username, id)
}

// DeleteFolder removes the folder and the notes filed in it.
func (s *Service) DeleteFolder(ctx context.Context, username string, id uint) error {
	return s.store.DeleteFolder(ctx, username, id)
}

// folderInput sanitises the name and defaults a blank colour to white.
func (s *Service) folderInput(name, color string) (folderInput, error) {
	input := folderInput{Name: s.sanitize(name), Color: strings.ToLower(strings.TrimSpace(color))}
	if input.Color == "" {
		input.Color = models.DefaultFolderColor
	}
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Color" {
			return folderInput{}, inputError("color", CodeInvalidFolderColor)
		}
		return folderInput{}, inputError("name", CodeFolderNameRequired)
	}
	return input, nil
}
