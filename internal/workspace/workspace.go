// Package workspace holds the note-taking rules shared by every transport:
// account management, folder and note operations, the lock gate and the
// virtual favorites folder. Callers pass the authenticated username with
// each call; the service keeps no per-user state.
package workspace

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"

	"notekeeper/internal/store"
	"notekeeper/models"
)

// MinPasswordLength is the shortest password accepted on register and change.
const MinPasswordLength = 4

var (
	ErrInvalidCredentials = errors.New("workspace: invalid username or password")
	ErrUserExists         = errors.New("workspace: user already exists")
	ErrInvalidFolder      = errors.New("workspace: invalid folder")
	ErrInvalidInput       = errors.New("workspace: invalid input")
	ErrUnsupportedFile    = errors.New("workspace: unsupported document type")
	ErrUnknownAccount     = errors.New("workspace: account does not exist")
	// ErrNotFound and ErrNoteLocked alias the store sentinels so callers need
	// only one import.
	ErrNotFound   = store.ErrNotFound
	ErrNoteLocked = store.ErrNoteLocked
)

// Input error codes. Transports use them as localisation keys.
const (
	CodeMissingCredentials = "MissingCredentials"
	CodePasswordMismatch   = "PasswordMismatch"
	CodePasswordTooShort   = "PasswordTooShort"
	CodeInvalidTheme       = "InvalidTheme"
	CodeFolderNameRequired = "FolderNameRequired"
	CodeInvalidFolderColor = "InvalidFolderColor"
	CodeEmptyDocument      = "EmptyDocument"
)

// InputError reports a rejected field. It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Field string
	Code  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("workspace: invalid %s (%s)", e.Field, e.Code)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func inputError(field, code string) error {
	return &InputError{Field: field, Code: code}
}

// Options configures a Service.
type Options struct {
	// BcryptCost defaults to bcrypt.DefaultCost when zero or out of range.
	BcryptCost int
}

// Service implements the workspace operations on top of a store.
type Service struct {
	store    *store.Store
	cost     int
	validate *validator.Validate
	policy   *bluemonday.Policy
}

// New builds a Service backed by st.
func New(st *store.Store, opts Options) *Service {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store:    st,
		cost:     cost,
		validate: newValidator(),
		policy:   bluemonday.StrictPolicy(),
	}
}

// Store exposes the data-access layer used by the service.
func (s *Service) Store() *store.Store {
	return s.store
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return models.ValidTheme(fl.Field().String())
	})
	_ = v.RegisterValidation("foldercolor", func(fl validator.FieldLevel) bool {
		return models.ValidFolderColor(fl.Field().String())
	})
	return v
}

type credentialsInput struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required"`
}

type themeInput struct {
	Theme string `validate:"theme"`
}

type folderInput struct {
	Name  string `validate:"required,max=255"`
	Color string `validate:"foldercolor"`
}

// sanitize strips markup from short single-line fields such as titles and
// folder names and collapses surrounding whitespace.
func (s *Service) sanitize(value string) string {
	cleaned := s.policy.Sanitize(value)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func noteTitle(title string) string {
	if title == "" {
		return models.DefaultNoteTitle
	}
	return title
}
