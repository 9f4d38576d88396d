package handlers

import (
	"errors"
	"net/http"
	"strings"

	applog "notekeeper/internal/log"
	"notekeeper/internal/views/pages"
	"notekeeper/internal/workspace"
)

// Signup displays the account creation form and processes new registrations.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	applog.Debug(r.Context(), "handling signup request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			applog.Debug(r.Context(), "active session detected during signup, redirecting to app")
			redirectToApp(w, r)
			return
		}
		renderAuthPage(w, r, http.StatusOK, pages.Signup, pages.AuthPageData{})
	case http.MethodPost:
		if sessionManager == nil || service == nil {
			applog.Debug(r.Context(), "registration dependencies unavailable", "hasSession", sessionManager != nil, "hasService", service != nil)
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse signup form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")
		confirm := r.PostFormValue("confirm")

		if _, err := service.Register(r.Context(), username, password, confirm); err != nil {
			var inputErr *workspace.InputError
			messageID := "Unexpected"
			switch {
			case errors.As(err, &inputErr):
				messageID = inputErr.Code
			case errors.Is(err, workspace.ErrUserExists):
				messageID = "UserExists"
			default:
				applog.Error(r.Context(), "failed to create user", "error", err)
			}
			applog.Debug(r.Context(), "signup rejected", "username", username, "reason", messageID)
			renderAuthPage(w, r, http.StatusOK, pages.Signup, pages.AuthPageData{Username: username, Message: translate(r, messageID), MessageKind: "error"})
			return
		}

		applog.Info(r.Context(), "user registered", "username", username)
		sessionManager.Put(r.Context(), sessionLoginMessageKey, translate(r, "RegisterSuccess"))
		redirectToLogin(w, r)
	default:
		applog.Debug(r.Context(), "method not allowed for signup", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
