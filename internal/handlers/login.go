package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "notekeeper/internal/log"
	"notekeeper/internal/metrics"
	"notekeeper/internal/views/pages"
	"notekeeper/internal/workspace"
)

// Login renders the authentication view and processes sign-in submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	applog.Debug(r.Context(), "handling login request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			applog.Debug(r.Context(), "active session detected, redirecting to app")
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderAuthPage(w, r, http.StatusOK, pages.Login, pages.AuthPageData{Message: message, MessageKind: "success"})
	case http.MethodPost:
		if sessionManager == nil || service == nil {
			applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasService", service != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse login form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")

		if !loginLimiter.Allow(clientKey(r)) {
			metrics.ObserveLogin("limited")
			applog.Info(r.Context(), "login rate limited", "client", clientKey(r))
			renderAuthPage(w, r, http.StatusTooManyRequests, pages.Login, loginError(r, "TooManyRequests", username))
			return
		}

		user, err := service.Authenticate(r.Context(), username, password)
		if err != nil {
			var inputErr *workspace.InputError
			switch {
			case errors.As(err, &inputErr):
				renderAuthPage(w, r, http.StatusOK, pages.Login, loginError(r, inputErr.Code, username))
			case errors.Is(err, workspace.ErrInvalidCredentials):
				metrics.ObserveLogin("invalid")
				applog.Debug(r.Context(), "authentication failed", "username", username)
				renderAuthPage(w, r, http.StatusOK, pages.Login, loginError(r, "InvalidCredentials", username))
			default:
				applog.Error(r.Context(), "failed to authenticate user", "error", err)
				renderAuthPage(w, r, http.StatusOK, pages.Login, loginError(r, "Unexpected", username))
			}
			return
		}

		if err := establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session", "error", err)
			renderAuthPage(w, r, http.StatusOK, pages.Login, loginError(r, "Unexpected", username))
			return
		}

		metrics.ObserveLogin("ok")
		applog.Debug(r.Context(), "authentication succeeded", "username", user.Username)
		redirectToApp(w, r)
	default:
		applog.Debug(r.Context(), "method not allowed for login", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func loginError(r *http.Request, messageID, username string) pages.AuthPageData {
	return pages.AuthPageData{Username: username, Message: translate(r, messageID), MessageKind: "error"}
}

func renderAuthPage(w http.ResponseWriter, r *http.Request, status int, page func(pages.AuthPageData) templ.Component, data pages.AuthPageData) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := page(data).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render auth page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
