package server

import (
	"context"
	"net/http"

	"notekeeper/internal/handlers"
	applog "notekeeper/internal/log"
	"notekeeper/internal/metrics"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	ctx := context.Background()
	applog.Debug(ctx, "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/logout", handlers.Logout)
	mux.HandleFunc("/language", handlers.SetLanguage)
	mux.HandleFunc("/api/tokens", handlers.IssueToken)
	applog.Debug(ctx, "public routes registered")

	page := func(h http.HandlerFunc) http.Handler { return handlers.RequireAuthentication(h) }
	mux.Handle("/app", page(handlers.Dashboard))
	mux.Handle("/app/settings", page(handlers.Dashboard))
	applog.Debug(ctx, "route registered", "path", "/app", "protected", true)

	api := func(h http.HandlerFunc) http.Handler { return handlers.RequireAPIAuthentication(h) }
	mux.Handle("/app/api/notes", api(handlers.NoteResource))
	mux.Handle("/app/api/notes/", api(handlers.NoteResource))
	mux.Handle("/app/api/folders", api(handlers.FolderResource))
	mux.Handle("/app/api/folders/", api(handlers.FolderResource))
	mux.Handle("/app/api/account", api(handlers.AccountResource))
	mux.Handle("/app/api/account/", api(handlers.AccountResource))
	mux.Handle("/app/api/theme/ambient", api(handlers.AmbientTheme))
	mux.Handle("/app/api/messages", api(handlers.Messages))
	applog.Debug(ctx, "route registered", "path", "/app/api/", "protected", true)

	mux.HandleFunc("/", handlers.Home)
	applog.Debug(ctx, "route registered", "path", "/")
	return mux
}
