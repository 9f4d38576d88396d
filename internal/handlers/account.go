package handlers

import (
	"net/http"
	"strings"

	applog "notekeeper/internal/log"
)

type passwordRequest struct {
	Password string `json:"password"`
}

// AccountResource serves the signed-in user's profile, password and deletion.
func AccountResource(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	username, ok := currentUsername(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, translate(r, "Unauthorized"))
		return
	}

	switch strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/api/account"), "/") {
	case "":
		switch r.Method {
		case http.MethodGet:
			showAccount(w, r, username)
		case http.MethodDelete:
			deleteAccount(w, r, username)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "password":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		changePassword(w, r, username)
	case "theme":
		UpdatePreferences(w, r)
	default:
		http.NotFound(w, r)
	}
}

func showAccount(w http.ResponseWriter, r *http.Request, username string) {
	profile, err := service.Profile(r.Context(), username)
	if err != nil {
		respondError(w, r, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func changePassword(w http.ResponseWriter, r *http.Request, username string) {
	var payload passwordRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid password payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}
	err := service.ChangePassword(r.Context(), username, payload.Password)
	observe("change_password", err)
	if err != nil {
		respondError(w, r, "change_password", err)
		return
	}
	applog.Info(r.Context(), "password changed", "username", username)
	w.WriteHeader(http.StatusNoContent)
}

func deleteAccount(w http.ResponseWriter, r *http.Request, username string) {
	err := service.DeleteAccount(r.Context(), username)
	observe("delete_account", err)
	if err != nil {
		respondError(w, r, "delete_account", err)
		return
	}
	applog.Info(r.Context(), "account deleted", "username", username)
	if sessionManager != nil && ActiveSession(r) {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session after account deletion", "error", err)
		}
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
	}
	w.WriteHeader(http.StatusNoContent)
}
