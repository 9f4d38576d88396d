package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notekeeper/internal/store"
	"notekeeper/models"
)

// Profile is the account summary shown on the settings screen.
type Profile struct {
	Username string           `json:"username"`
	Theme    string           `json:"theme"`
	Counts   store.NoteCounts `json:"counts"`
}

// Register creates an account with the default theme.
func (s *Service) Register(ctx context.Context, username, password, confirm string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := s.validate.Struct(credentialsInput{Username: username, Password: strings.TrimSpace(password)}); err != nil {
		return nil, inputError("credentials", CodeMissingCredentials)
	}
	if password != confirm {
		return nil, inputError("confirm", CodePasswordMismatch)
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, inputError("password", CodePasswordTooShort)
	}

	if _, err := s.store.GetUser(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hashed,
		Theme:        models.DefaultTheme,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when the password matches the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, inputError("credentials", CodeMissingCredentials)
	}
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyPassword checks password against the account without returning the user.
func (s *Service) VerifyPassword(ctx context.Context, username, password string) error {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, username, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return inputError("password", CodeMissingCredentials)
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return inputError("password", CodePasswordTooShort)
	}
	hashed, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateUserPassword(ctx, username, hashed)
}

// ChangeTheme stores a theme key; unknown keys are rejected rather than normalised.
func (s *Service) ChangeTheme(ctx context.Context, username, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if err := s.validate.Struct(themeInput{Theme: theme}); err != nil {
		return inputError("theme", CodeInvalidTheme)
	}
	return s.store.UpdateUserTheme(ctx, username, theme)
}

// Ping reports whether the backing database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Account returns the stored user, or ErrUnknownAccount when there is none.
func (s *Service) Account(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user and everything they own.
func (s *Service) DeleteAccount(ctx context.Context, username string) error {
	return s.store.DeleteUser(ctx, username)
}

func (s *Service) Profile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.CountNotes(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	return &Profile{Username: user.Username, Theme: models.NormalizeTheme(user.Theme), Counts: counts}, nil
}
