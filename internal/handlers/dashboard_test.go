package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDashboardRendersWorkspace(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)
	svc, svcCleanup := withTestWorkspace(t)
	t.Cleanup(svcCleanup)
	mustRegister(t, svc, "ala", "secret")

	ctx := context.Background()
	folder, err := svc.AddFolder(ctx, "ala", "Recipes", "gold")
	if err != nil {
		t.Fatalf("add folder: %v", err)
	}
	if _, err := svc.AddNote(ctx, "ala", "Pierogi", "flour, water", nil); err != nil {
		t.Fatalf("add note: %v", err)
	}

	req := authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil), "ala")
	w := httptest.NewRecorder()
	Dashboard(w, withUsername(req, "ala"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Pierogi", folder.Name, "General"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in workspace body", want)
		}
	}
	if w.Header().Get("Accept-CH") == "" {
		t.Fatal("expected client hint header")
	}
}

func TestDashboardFallsBackOnForeignFolder(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)
	svc, svcCleanup := withTestWorkspace(t)
	t.Cleanup(svcCleanup)
	mustRegister(t, svc, "ala", "secret")

	req := authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app?folder=0", nil), "ala")
	w := httptest.NewRecorder()
	Dashboard(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with all notes fallback, got %d", w.Code)
	}
}

func TestDashboardRequiresUser(t *testing.T) {
	_, svcCleanup := withTestWorkspace(t)
	t.Cleanup(svcCleanup)

	w := httptest.NewRecorder()
	Dashboard(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
}

func TestAmbientLux(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		cookie string
		want   *float64
	}{
		{name: "none", target: "/app"},
		{name: "query", target: "/app?lux=12.5", want: ptr(12.5)},
		{name: "cookie", target: "/app", cookie: "40", want: ptr(40.0)},
		{name: "negative", target: "/app?lux=-1"},
		{name: "garbage", target: "/app?lux=bright"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: ambientCookie, Value: tc.cookie})
			}
			got := ambientLux(req)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %v", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("expected %v, got %v", *tc.want, got)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
