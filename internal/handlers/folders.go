package handlers

import (
	"net/http"
	"strings"
	"time"

	applog "notekeeper/internal/log"
	"notekeeper/models"
)

type folderResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	ContentColor string    `json:"content_color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type folderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type folderListResponse struct {
	Folders      []folderResponse `json:"folders"`
	Colors       []string         `json:"colors"`
	HasFavorites bool             `json:"has_favorites"`
}

// FolderResource handles REST-style interactions for folders.
func FolderResource(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		applog.Debug(r.Context(), "folder request without workspace service")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	username, ok := currentUsername(r)
	if !ok {
		applog.Debug(r.Context(), "folder request missing authenticated user")
		writeJSONError(w, http.StatusUnauthorized, translate(r, "Unauthorized"))
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/api/folders"), "/")
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listFolders(w, r, username)
		case http.MethodPost:
			createFolder(w, r, username)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	folderID, ok := parseID(path)
	if !ok {
		applog.Debug(r.Context(), "invalid folder identifier", "identifier", path)
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		updateFolder(w, r, username, folderID)
	case http.MethodDelete:
		deleteFolder(w, r, username, folderID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listFolders(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()
	folders, err := service.Folders(ctx, username)
	observe("list_folders", err)
	if err != nil {
		respondError(w, r, "list_folders", err)
		return
	}
	favorites, err := service.NotesByContext(ctx, username, favoritesContext())
	if err != nil {
		respondError(w, r, "list_folders", err)
		return
	}

	response := folderListResponse{
		Folders:      make([]folderResponse, 0, len(folders)),
		Colors:       models.FolderColors(),
		HasFavorites: len(favorites) > 0,
	}
	for _, folder := range folders {
		response.Folders = append(response.Folders, projectFolder(folder))
	}
	writeJSON(w, http.StatusOK, response)
}

func createFolder(w http.ResponseWriter, r *http.Request, username string) {
	var payload folderRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid folder payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}
	folder, err := service.AddFolder(r.Context(), username, payload.Name, payload.Color)
	observe("add_folder", err)
	if err != nil {
		respondError(w, r, "add_folder", err)
		return
	}
	writeJSON(w, http.StatusCreated, projectFolder(*folder))
}

func updateFolder(w http.ResponseWriter, r *http.Request, username string, folderID uint) {
	var payload folderRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid folder update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}
	folder, err := service.UpdateFolder(r.Context(), username, folderID, payload.Name, payload.Color)
	observe("update_folder", err)
	if err != nil {
		respondError(w, r, "update_folder", err)
		return
	}
	writeJSON(w, http.StatusOK, projectFolder(*folder))
}

func deleteFolder(w http.ResponseWriter, r *http.Request, username string, folderID uint) {
	err := service.DeleteFolder(r.Context(), username, folderID)
	observe("delete_folder", err)
	if err != nil {
		respondError(w, r, "delete_folder", err)
		return
	}
	applog.Debug(r.Context(), "folder deleted", "id", folderID, "username", username)
	w.WriteHeader(http.StatusNoContent)
}

func favoritesContext() *int {
	id := models.FavoritesFolderID
	return &id
}

func projectFolder(folder models.Folder) folderResponse {
	color := models.NormalizeFolderColor(folder.Color)
	return folderResponse{
		ID:           folder.ID,
		Name:         folder.Name,
		Color:        color,
		ContentColor: models.FolderContentColor(color),
		CreatedAt:    folder.CreatedAt,
		UpdatedAt:    folder.UpdatedAt,
	}
}
