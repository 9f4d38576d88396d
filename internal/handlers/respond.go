package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	applog "notekeeper/internal/log"
	"notekeeper/internal/metrics"
	"notekeeper/internal/workspace"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type inputErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
	Code  string `json:"code"`
}

// respondError maps a workspace error to a status and a localized message.
func respondError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	ctx := r.Context()
	var inputErr *workspace.InputError
	switch {
	case errors.As(err, &inputErr):
		applog.Debug(ctx, "rejected input", "operation", operation, "field", inputErr.Field, "code", inputErr.Code)
		writeJSON(w, http.StatusBadRequest, inputErrorResponse{Error: translate(r, inputErr.Code), Field: inputErr.Field, Code: inputErr.Code})
	case errors.Is(err, workspace.ErrNotFound):
		applog.Debug(ctx, "resource not found", "operation", operation)
		writeJSONError(w, http.StatusNotFound, translate(r, "NotFound"))
	case errors.Is(err, workspace.ErrNoteLocked):
		writeJSONError(w, http.StatusConflict, translate(r, "NoteLocked"))
	case errors.Is(err, workspace.ErrUserExists):
		writeJSONError(w, http.StatusConflict, translate(r, "UserExists"))
	case errors.Is(err, workspace.ErrInvalidFolder):
		writeJSONError(w, http.StatusBadRequest, translate(r, "InvalidFolder"))
	case errors.Is(err, workspace.ErrUnsupportedFile):
		writeJSONError(w, http.StatusUnsupportedMediaType, translate(r, "UnsupportedFile"))
	case errors.Is(err, workspace.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, translate(r, "WrongPassword"))
	case errors.Is(err, workspace.ErrUnknownAccount):
		writeJSONError(w, http.StatusUnauthorized, translate(r, "Unauthorized"))
	default:
		applog.Error(ctx, "workspace operation failed", "operation", operation, "error", err)
		writeJSONError(w, http.StatusInternalServerError, translate(r, "Unexpected"))
	}
}

// observe records the operation outcome; client errors count as ok.
func observe(operation string, err error) {
	var inputErr *workspace.InputError
	if err == nil || errors.As(err, &inputErr) || errors.Is(err, workspace.ErrNotFound) ||
		errors.Is(err, workspace.ErrNoteLocked) || errors.Is(err, workspace.ErrInvalidFolder) ||
		errors.Is(err, workspace.ErrInvalidCredentials) || errors.Is(err, workspace.ErrUserExists) ||
		errors.Is(err, workspace.ErrUnsupportedFile) || errors.Is(err, workspace.ErrUnknownAccount) {
		metrics.ObserveOperation(operation, nil)
		return
	}
	metrics.ObserveOperation(operation, err)
}

// decodeJSON reads a JSON body, accepting form posts from HTMX pages as well.
func decodeJSON(r *http.Request, payload any) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return err
		}
		values := make(map[string]any, len(r.PostForm))
		for key := range r.PostForm {
			values[key] = r.PostForm.Get(key)
		}
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, payload)
	}
	return json.NewDecoder(r.Body).Decode(payload)
}

// optionalInt accepts a JSON number, a numeric string, an empty string or null.
type optionalInt struct {
	Value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		o.Value = nil
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	value, ok := parseFolderParam(raw)
	if !ok {
		return errors.New("folder_id must be an integer")
	}
	o.Value = value
	return nil
}

// parseID reads a positive numeric path segment.
func parseID(segment string) (uint, bool) {
	value, err := strconv.ParseUint(segment, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// parseFolderParam reads an optional folder id; blank means no folder.
func parseFolderParam(raw string) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}
