package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"notekeeper/internal/i18n"
	applog "notekeeper/internal/log"
	"notekeeper/internal/views/pages"
	"notekeeper/internal/views/theme"
)

type preferencesRequest struct {
	Theme string `json:"theme"`
}

type preferencesResponse struct {
	Theme  string `json:"theme"`
	Scheme string `json:"scheme"`
}

type ambientRequest struct {
	Lux        float64 `json:"lux"`
	SystemDark bool    `json:"system_dark"`
}

// UpdatePreferences persists the theme preference for the authenticated user.
func UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		applog.Debug(r.Context(), "preferences update with unsupported method", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if service == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	username, ok := currentUsername(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, translate(r, "Unauthorized"))
		return
	}

	var payload preferencesRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid preferences payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}

	err := service.ChangeTheme(r.Context(), username, payload.Theme)
	observe("change_theme", err)
	if err != nil {
		respondError(w, r, "change_theme", err)
		return
	}

	key := theme.Resolve(payload.Theme)
	setSessionTheme(r, key)
	applog.Debug(r.Context(), "updated theme preference", "username", username, "theme", key)

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		renderComponent(w, r, pages.PreferenceStatus(translate(r, "Saved")))
		return
	}
	scheme := theme.Scheme(key, theme.PrefersDark(r.Header.Get("Sec-CH-Prefers-Color-Scheme")), ambientLux(r))
	writeJSON(w, http.StatusOK, preferencesResponse{Theme: key, Scheme: scheme})
}

// AmbientTheme records a light sensor reading and returns the scheme the
// user's preference resolves to.
func AmbientTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload ambientRequest
	if err := decodeJSON(r, &payload); err != nil || payload.Lux < 0 {
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}

	key := sessionTheme(r)
	if service != nil {
		if username, ok := currentUsername(r); ok {
			if profile, err := service.Profile(r.Context(), username); err == nil {
				key = profile.Theme
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ambientCookie,
		Value:    strconv.FormatFloat(payload.Lux, 'f', -1, 64),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	lux := payload.Lux
	writeJSON(w, http.StatusOK, preferencesResponse{Theme: key, Scheme: theme.Scheme(key, payload.SystemDark, &lux)})
}

// SetLanguage stores an explicit language choice in a cookie.
func SetLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	lang := strings.TrimSpace(r.FormValue("lang"))
	if lang == "" {
		http.Error(w, "missing language", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: i18n.LanguageCookie, Value: lang, Path: "/", SameSite: http.SameSiteLaxMode})
	redirectTo(w, r, "/app")
}
