package handlers

import (
	"context"
	"net/http"
	"time"

	applog "notekeeper/internal/log"
)

// healthPingTimeout bounds the database check of a single health request.
const healthPingTimeout = 2 * time.Second

// Database states reported by Health.
const (
	databaseUp       = "up"
	databaseDown     = "down"
	databaseDisabled = "disabled"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Tokens   bool      `json:"tokens"`
	Time     time.Time `json:"time"`
}

// Health reports whether the notes database answers. A configured database
// that fails its ping answers 503; a server without a database reports ok
// with the database disabled.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Database: databaseDisabled,
		Tokens:   tokens.Enabled(),
		Time:     time.Now().UTC(),
	}
	status := http.StatusOK

	if service != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := service.Ping(ctx); err != nil {
			applog.Warn(r.Context(), "database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = databaseDown
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = databaseUp
		}
	}

	writeJSON(w, status, resp)
}
