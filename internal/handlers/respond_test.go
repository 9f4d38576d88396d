package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"notekeeper/internal/workspace"
)

func TestRespondErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: fmt.Errorf("get: %w", workspace.ErrNotFound), want: http.StatusNotFound},
		{name: "locked", err: workspace.ErrNoteLocked, want: http.StatusConflict},
		{name: "duplicate", err: workspace.ErrUserExists, want: http.StatusConflict},
		{name: "folder", err: workspace.ErrInvalidFolder, want: http.StatusBadRequest},
		{name: "input", err: &workspace.InputError{Field: "name", Code: workspace.CodeFolderNameRequired}, want: http.StatusBadRequest},
		{name: "file", err: workspace.ErrUnsupportedFile, want: http.StatusUnsupportedMediaType},
		{name: "credentials", err: workspace.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			respondError(w, httptest.NewRequest(http.MethodGet, "/", nil), "test", tc.err)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestOptionalIntUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    *int
		wantErr bool
	}{
		{input: `{"folder_id": null}`},
		{input: `{"folder_id": ""}`},
		{input: `{"folder_id": 3}`, want: ptr(3)},
		{input: `{"folder_id": "-1"}`, want: ptr(-1)},
		{input: `{"folder_id": "abc"}`, wantErr: true},
	}
	for _, tc := range tests {
		var payload noteMoveRequest
		err := json.Unmarshal([]byte(tc.input), &payload)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.input, err)
		}
		got := payload.FolderID.Value
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.input, tc.want, got)
		}
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if id, ok := parseID("42"); !ok || id != 42 {
		t.Fatalf("expected 42, got %d (%t)", id, ok)
	}
	for _, raw := range []string{"0", "-1", "x", ""} {
		if _, ok := parseID(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
