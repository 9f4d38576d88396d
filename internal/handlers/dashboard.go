package handlers

import (
	"net/http"
	"strconv"
	"strings"

	applog "notekeeper/internal/log"
	"notekeeper/internal/views/pages"
	"notekeeper/internal/views/theme"
)

// ambientCookie carries the last light sensor reading reported by the client.
const ambientCookie = "notekeeper_lux"

// Dashboard renders the main application workspace once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if service == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	username, ok := currentUsername(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}

	ctx := r.Context()
	folderID, valid := parseFolderParam(r.URL.Query().Get("folder"))
	if !valid {
		applog.Debug(ctx, "invalid folder parameter", "value", r.URL.Query().Get("folder"))
		folderID = nil
	}

	profile, err := service.Profile(ctx, username)
	if err != nil {
		applog.Error(ctx, "failed to load profile", "error", err, "username", username)
		http.Error(w, translate(r, "Unexpected"), http.StatusInternalServerError)
		return
	}
	folders, err := service.Folders(ctx, username)
	if err != nil {
		applog.Error(ctx, "failed to load folders", "error", err)
		http.Error(w, translate(r, "Unexpected"), http.StatusInternalServerError)
		return
	}
	notes, err := service.NotesByContext(ctx, username, folderID)
	if err != nil {
		applog.Debug(ctx, "falling back to all notes", "error", err)
		folderID = nil
		if notes, err = service.NotesByContext(ctx, username, nil); err != nil {
			applog.Error(ctx, "failed to load notes", "error", err)
			http.Error(w, translate(r, "Unexpected"), http.StatusInternalServerError)
			return
		}
	}

	snapshot := pages.NewWorkspaceSnapshot(username, profile.Theme, folders, notes, folderID)
	snapshot.Counts = profile.Counts
	snapshot.Section = pages.NormalizeWorkspaceSection(strings.TrimPrefix(r.URL.Path, "/app/"))
	setSessionTheme(r, profile.Theme)

	styled := theme.Styles(profile.Theme, theme.PrefersDark(r.Header.Get("Sec-CH-Prefers-Color-Scheme")), ambientLux(r))
	w.Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	renderComponent(w, r, pages.Workspace(snapshot, styled))
}

// ambientLux reads a light sensor value from the query or the ambient cookie.
func ambientLux(r *http.Request) *float64 {
	raw := r.URL.Query().Get("lux")
	if raw == "" {
		if cookie, err := r.Cookie(ambientCookie); err == nil {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}
