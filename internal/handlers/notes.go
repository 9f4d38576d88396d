package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	applog "notekeeper/internal/log"
	"notekeeper/internal/workspace"
	"notekeeper/models"
)

type noteResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	FolderID    *uint     `json:"folder_id"`
	FolderLabel string    `json:"folder_label,omitempty"`
	Locked      bool      `json:"locked"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CanEdit     bool      `json:"can_edit"`
	CanMove     bool      `json:"can_move"`
	CanDelete   bool      `json:"can_delete"`
}

type noteCreateRequest struct {
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	FolderID optionalInt `json:"folder_id"`
}

type noteUpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteMoveRequest struct {
	FolderID optionalInt `json:"folder_id"`
}

type noteLockRequest struct {
	Password string `json:"password"`
}

// NoteResource handles REST-style interactions for notes.
func NoteResource(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		applog.Debug(r.Context(), "note request without workspace service")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	username, ok := currentUsername(r)
	if !ok {
		applog.Debug(r.Context(), "note request missing authenticated user")
		writeJSONError(w, http.StatusUnauthorized, translate(r, "Unauthorized"))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/notes")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listNotes(w, r, username)
		case http.MethodPost:
			createNote(w, r, username)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if path == "import" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		importNote(w, r, username)
		return
	}

	segments := strings.Split(path, "/")
	noteID, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid note identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	if len(segments) > 1 {
		if len(segments) > 2 || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch segments[1] {
		case "move":
			moveNote(w, r, username, noteID)
		case "lock":
			toggleNoteLock(w, r, username, noteID)
		case "favorite":
			toggleNoteFavorite(w, r, username, noteID)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showNote(w, r, username, noteID)
	case http.MethodPut:
		updateNote(w, r, username, noteID)
	case http.MethodDelete:
		deleteNote(w, r, username, noteID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listNotes(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()
	folderID, ok := parseFolderParam(r.URL.Query().Get("folder"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidFolder"))
		return
	}

	notes, err := service.NotesByContext(ctx, username, folderID)
	observe("list_notes", err)
	if err != nil {
		respondError(w, r, "list_notes", err)
		return
	}
	folders, err := service.Folders(ctx, username)
	if err != nil {
		respondError(w, r, "list_notes", err)
		return
	}

	responses := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, projectNote(note, folders))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showNote(w http.ResponseWriter, r *http.Request, username string, noteID uint) {
	note, err := service.Note(r.Context(), username, noteID)
	if err != nil {
		respondError(w, r, "show_note", err)
		return
	}
	folders, err := service.Folders(r.Context(), username)
	if err != nil {
		respondError(w, r, "show_note", err)
		return
	}
	writeJSON(w, http.StatusOK, projectNote(*note, folders))
}

func createNote(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()
	var payload noteCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(ctx, "invalid note payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}

	note, err := service.AddNote(ctx, username, payload.Title, payload.Content, payload.FolderID.Value)
	observe("add_note", err)
	if err != nil {
		respondError(w, r, "add_note", err)
		return
	}
	applog.Debug(ctx, "note created", "id", note.ID, "username", username)
	writeJSON(w, http.StatusCreated, projectNote(*note, nil))
}

func updateNote(w http.ResponseWriter, r *http.Request, username string, noteID uint) {
	ctx := r.Context()
	var payload noteUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(ctx, "invalid note update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}

	note, err := service.UpdateNote(ctx, username, noteID, payload.Title, payload.Content)
	observe("update_note", err)
	if err != nil {
		respondError(w, r, "update_note", err)
		return
	}
	writeJSON(w, http.StatusOK, projectNote(*note, nil))
}

func deleteNote(w http.ResponseWriter, r *http.Request, username string, noteID uint) {
	err := service.DeleteNote(r.Context(), username, noteID)
	observe("delete_note", err)
	if err != nil {
		respondError(w, r, "delete_note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func moveNote(w http.ResponseWriter, r *http.Request, username string, noteID uint) {
	ctx := r.Context()
	var payload noteMoveRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(ctx, "invalid note move payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}

	note, err := service.MoveNote(ctx, username, noteID, payload.FolderID.Value)
	observe("move_note", err)
	if err != nil {
		respondError(w, r, "move_note", err)
		return
	}
	writeJSON(w, http.StatusOK, projectNote(*note, nil))
}

func toggleNoteLock(w http.ResponseWriter, r *http.Request, username string, noteID uint) {
	ctx := r.Context()
	var payload noteLockRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			applog.Debug(ctx, "invalid note lock payload", "error", err)
			writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
			return
		}
	}

	note, err := service.ToggleLock(ctx, username, noteID, payload.Password)
	observe("toggle_lock", err)
	if err != nil {
		respondError(w, r, "toggle_lock", err)
		return
	}
	applog.Debug(ctx, "note lock toggled", "id", note.ID, "locked", note.Locked)
	writeJSON(w, http.StatusOK, projectNote(*note, nil))
}

func toggleNoteFavorite(w http.ResponseWriter, r *http.Request, username string, noteID uint) {
	note, err := service.ToggleFavorite(r.Context(), username, noteID)
	observe("toggle_favorite", err)
	if err != nil {
		respondError(w, r, "toggle_favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, projectNote(*note, nil))
}

func importNote(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, workspace.MaxDocumentBytes+1<<20)
	if err := r.ParseMultipartForm(workspace.MaxDocumentBytes); err != nil {
		applog.Debug(ctx, "invalid import upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		applog.Debug(ctx, "import upload missing file", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		applog.Error(ctx, "failed to read import upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}
	folderID, ok := parseFolderParam(r.FormValue("folder_id"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidFolder"))
		return
	}

	note, err := service.ImportDocument(ctx, username, header.Filename, data, header.Header.Get("Content-Type"), folderID)
	observe("import_document", err)
	if err != nil {
		respondError(w, r, "import_document", err)
		return
	}
	applog.Info(ctx, "document imported", "id", note.ID, "filename", header.Filename, "bytes", len(data))
	writeJSON(w, http.StatusCreated, projectNote(*note, nil))
}

func projectNote(note models.Note, folders []models.Folder) noteResponse {
	response := noteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		FolderID:  note.FolderID,
		Locked:    note.Locked,
		Favorite:  note.Favorite,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		CanEdit:   !note.Locked,
		CanMove:   !note.Locked,
		CanDelete: true,
	}
	if folders != nil {
		response.FolderLabel = workspace.FolderLabel(folders, note)
	}
	return response
}
