package handlers

import (
	"errors"
	"net/http"
	"time"

	applog "notekeeper/internal/log"
	"notekeeper/internal/metrics"
	"notekeeper/internal/workspace"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	Username  string     `json:"username"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IssueToken exchanges credentials for a bearer token.
func IssueToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if service == nil || !tokens.Enabled() {
		applog.Debug(r.Context(), "token request while tokens are disabled")
		writeJSONError(w, http.StatusServiceUnavailable, "token authentication not available")
		return
	}
	if !loginLimiter.Allow(clientKey(r)) {
		metrics.ObserveLogin("limited")
		writeJSONError(w, http.StatusTooManyRequests, translate(r, "TooManyRequests"))
		return
	}

	var payload tokenRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidRequest"))
		return
	}

	user, err := service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, workspace.ErrInvalidCredentials) {
			metrics.ObserveLogin("invalid")
			writeJSONError(w, http.StatusUnauthorized, translate(r, "InvalidCredentials"))
			return
		}
		respondError(w, r, "issue_token", err)
		return
	}

	token, expires, err := tokens.Issue(user.Username, user.AccountStamp())
	if err != nil {
		applog.Error(r.Context(), "failed to issue token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, translate(r, "Unexpected"))
		return
	}
	metrics.ObserveLogin("ok")

	response := tokenResponse{Token: token, TokenType: "Bearer", Username: user.Username}
	if !expires.IsZero() {
		response.ExpiresAt = &expires
	}
	writeJSON(w, http.StatusCreated, response)
}
