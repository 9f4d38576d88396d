package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notekeeper/internal/i18n"
)

func TestMessagesLocalized(t *testing.T) {
	_, cleanup := withTestWorkspace(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/app/api/messages", nil)
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9")
	req = req.WithContext(i18n.NewContext(req.Context(), translator.ForRequest(req)))
	w := httptest.NewRecorder()
	Messages(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := decodeBody[messagesResponse](t, w)
	if got.Messages["General"] != "Ogólne" {
		t.Fatalf("expected polish catalogue, got %q", got.Messages["General"])
	}
	if len(got.Themes) != 4 || got.Themes[0].Value != "system" {
		t.Fatalf("unexpected themes %+v", got.Themes)
	}
	if len(got.FolderColors) != 7 {
		t.Fatalf("expected seven folder colors, got %d", len(got.FolderColors))
	}
}

func TestIssueToken(t *testing.T) {
	svc, cleanup := withTestWorkspace(t)
	t.Cleanup(cleanup)
	t.Cleanup(withTestTokens(t, "test-secret"))
	mustRegister(t, svc, "ala", "secret")

	w := httptest.NewRecorder()
	IssueToken(w, apiRequest(http.MethodPost, "/api/tokens", map[string]string{"username": "ala", "password": "nope"}, ""))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	IssueToken(w, apiRequest(http.MethodPost, "/api/tokens", map[string]string{"username": "ala", "password": "secret"}, ""))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	got := decodeBody[tokenResponse](t, w)
	if got.TokenType != "Bearer" || got.ExpiresAt == nil || !got.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected token response %+v", got)
	}

	claims, err := tokens.Parse(got.Token)
	if err != nil || claims.Username() != "ala" {
		t.Fatalf("expected token for ala, got %+v (%v)", claims, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/app/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+got.Token)
	w = httptest.NewRecorder()
	RequireAPIAuthentication(http.HandlerFunc(NoteResource)).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected bearer token to authorise api, got %d", w.Code)
	}
}

func TestIssueTokenDisabled(t *testing.T) {
	_, cleanup := withTestWorkspace(t)
	t.Cleanup(cleanup)
	t.Cleanup(withTestTokens(t, ""))

	w := httptest.NewRecorder()
	IssueToken(w, apiRequest(http.MethodPost, "/api/tokens", map[string]string{"username": "ala"}, ""))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
