package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"notekeeper/internal/auth"
	"notekeeper/internal/i18n"
	"notekeeper/internal/store"
	"notekeeper/internal/workspace"
	"notekeeper/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

// withTestWorkspace installs a workspace service backed by a private
// in-memory database and an English translator.
func withTestWorkspace(t *testing.T) (*workspace.Service, func()) {
	t.Helper()
	originalService, originalTranslator := service, translator

	dsn := fmt.Sprintf("file:handlers-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Folder{}, &models.Note{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load translations: %v", err)
	}

	svc := workspace.New(store.New(db), workspace.Options{BcryptCost: bcrypt.MinCost})
	service = svc
	translator = tr
	return svc, func() {
		service, translator = originalService, originalTranslator
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func withTestTokens(t *testing.T, secret string) func() {
	t.Helper()
	original := tokens
	tokens = auth.NewTokens(secret, time.Hour)
	return func() { tokens = original }
}

func withTestLimiter(t *testing.T, limiter *LoginLimiter) func() {
	t.Helper()
	original := loginLimiter
	loginLimiter = limiter
	return func() { loginLimiter = original }
}

func mustRegister(t *testing.T, svc *workspace.Service, username, password string) {
	t.Helper()
	if _, err := svc.Register(context.Background(), username, password, password); err != nil {
		t.Fatalf("register %q: %v", username, err)
	}
}

func loadSession(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}

func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, username string) *http.Request {
	t.Helper()
	req = loadSession(t, sm, req)
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserNameKey, username)
	if service != nil {
		if user, err := service.Account(context.Background(), username); err == nil {
			sm.Put(req.Context(), sessionAccountKey, user.AccountStamp())
		}
	}
	return req
}

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTMX(req) {
		t.Fatal("expected false when no HTMX headers present")
	}
	req.Header.Set("HX-Request", "true")
	if !isHTMX(req) {
		t.Fatal("expected true when HX-Request header present")
	}
}

func TestActiveSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session when manager is nil")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req = loadSession(t, sm, req)
	if ActiveSession(req) {
		t.Fatal("expected inactive session before login")
	}
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserNameKey, "ala")

	if !ActiveSession(req) {
		t.Fatal("expected active session when flags are set")
	}
}

func TestCurrentUsernamePrefersBearerToken(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)
	t.Cleanup(withTestTokens(t, "test-secret"))

	token, _, err := tokens.Issue("ola", 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app/api/notes", nil), "ala")
	if got, ok := currentUsername(req); !ok || got != "ala" {
		t.Fatalf("expected session user, got %q (ok=%t)", got, ok)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if got, ok := currentUsername(req); !ok || got != "ola" {
		t.Fatalf("expected token user, got %q (ok=%t)", got, ok)
	}

	req.Header.Set("Authorization", "Bearer forged")
	if _, ok := currentUsername(req); ok {
		t.Fatal("expected forged token to be rejected even with a session")
	}
}

func TestEstablishSession(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := loadSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))
	user := &models.User{Username: "ala", Theme: "sensor"}
	if err := establishSession(req, user); err != nil {
		t.Fatalf("establishSession returned error: %v", err)
	}

	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}
	if got := sm.GetString(req.Context(), sessionUserNameKey); got != "ala" {
		t.Fatalf("unexpected username %q", got)
	}
	if got := sessionTheme(req); got != models.ThemeSensor {
		t.Fatalf("unexpected theme %q", got)
	}
}

func TestEstablishSessionWithoutManager(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	if err := establishSession(req, &models.User{}); err == nil {
		t.Fatal("expected error when session manager is nil")
	}
}

func TestRequireAuthenticationRedirects(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	var seen string
	handler := RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = currentUsername(r)
	}))

	req := loadSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	req = authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil), "ala")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "ala" {
		t.Fatalf("expected username in context, got %q", seen)
	}
}

func TestRequireAPIAuthenticationRejects(t *testing.T) {
	_, cleanup := withTestWorkspace(t)
	t.Cleanup(cleanup)

	handler := RequireAPIAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/api/notes", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}
}

func TestDeletedAccountCredentialsAreRejected(t *testing.T) {
	svc, cleanup := withTestWorkspace(t)
	t.Cleanup(cleanup)
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	t.Cleanup(withTestTokens(t, "test-secret"))
	ctx := context.Background()

	mustRegister(t, svc, "ala", "secret")
	user, err := svc.Account(ctx, "ala")
	if err != nil {
		t.Fatalf("Account error = %v", err)
	}
	token, _, err := tokens.Issue("ala", user.AccountStamp())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	other := authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app/api/notes", nil), "ala")

	api := RequireAPIAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	bearer := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/app/api/notes", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	w := httptest.NewRecorder()
	api.ServeHTTP(w, bearer())
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected live token to pass, got %d", w.Code)
	}

	if err := svc.DeleteAccount(ctx, "ala"); err != nil {
		t.Fatalf("DeleteAccount error = %v", err)
	}

	w = httptest.NewRecorder()
	api.ServeHTTP(w, other)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected other session to be rejected, got %d", w.Code)
	}
	if ActiveSession(other) {
		t.Fatal("expected session of deleted account to be destroyed")
	}

	w = httptest.NewRecorder()
	api.ServeHTTP(w, bearer())
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected token of deleted account to be rejected, got %d", w.Code)
	}

	mustRegister(t, svc, "ala", "another")
	w = httptest.NewRecorder()
	api.ServeHTTP(w, bearer())
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected old token to be rejected by the new account, got %d", w.Code)
	}

	stale := loadSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))
	sm.Put(stale.Context(), sessionAuthenticatedKey, true)
	sm.Put(stale.Context(), sessionUserNameKey, "ala")
	sm.Put(stale.Context(), sessionAccountKey, user.AccountStamp())
	w = httptest.NewRecorder()
	RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("page handler must not run for a replaced account")
	})).ServeHTTP(w, stale)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := authenticateRequest(t, sm, httptest.NewRequest(http.MethodPost, "/logout", nil), "ala")
	w := httptest.NewRecorder()
	Logout(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if ActiveSession(req) {
		t.Fatal("expected session to be cleared")
	}

	w = httptest.NewRecorder()
	Logout(w, httptest.NewRequest(http.MethodPut, "/logout", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestRedirectUsesHXRedirectForHTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	redirectToApp(w, req)
	if w.Header().Get("HX-Redirect") != "/app" {
		t.Fatalf("expected HX-Redirect header, got %q", w.Header().Get("HX-Redirect"))
	}
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:5555"
	if got := clientKey(req); got != "::1" {
		t.Fatalf("expected ::1, got %q", got)
	}
	req.RemoteAddr = "bogus"
	if got := clientKey(req); got != "bogus" {
		t.Fatalf("expected raw address fallback, got %q", got)
	}
}
