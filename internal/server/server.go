package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"notekeeper/internal/auth"
	"notekeeper/internal/handlers"
	"notekeeper/internal/i18n"
	applog "notekeeper/internal/log"
	"notekeeper/internal/metrics"
	"notekeeper/internal/store"
	"notekeeper/internal/workspace"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr          string
	Session       SessionConfig
	Token         TokenConfig
	LoginLimit    LoginLimitConfig
	BcryptCost    int
	DefaultLocale string
	Database      *gorm.DB
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// TokenConfig enables bearer tokens when Secret is set.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// LoginLimitConfig throttles login and token requests per client address.
// Zero values disable throttling.
type LoginLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"sessionLifetime", cfg.Session.Lifetime.String(),
		"sessionCookie", cfg.Session.CookieName,
	)

	sessionCfg := cfg.Session
	if sessionCfg.Lifetime <= 0 {
		applog.Debug(context.Background(), "session lifetime not provided, using default")
		sessionCfg.Lifetime = 12 * time.Hour
	}
	if strings.TrimSpace(sessionCfg.CookieName) == "" {
		applog.Debug(context.Background(), "session cookie name not provided, using default")
		sessionCfg.CookieName = "notekeeper_session"
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = sessionCfg.Lifetime
	sessionManager.Cookie.Name = sessionCfg.CookieName
	sessionManager.Cookie.Domain = sessionCfg.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = sessionCfg.CookieSecure

	applog.Debug(context.Background(), "session manager configured",
		"cookieName", sessionCfg.CookieName,
		"cookieDomain", sessionCfg.CookieDomain,
		"cookieSecure", sessionCfg.CookieSecure,
	)

	locale := strings.TrimSpace(cfg.DefaultLocale)
	if locale == "" {
		locale = "en"
	}
	translator, err := i18n.New(locale)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	var svc *workspace.Service
	if cfg.Database != nil {
		svc = workspace.New(store.New(cfg.Database), workspace.Options{BcryptCost: cfg.BcryptCost})
	} else {
		applog.Debug(context.Background(), "no database configured, workspace routes will be unavailable")
	}

	handlers.Configure(handlers.Dependencies{
		Sessions:     sessionManager,
		Workspace:    svc,
		Translator:   translator,
		Tokens:       auth.NewTokens(cfg.Token.Secret, cfg.Token.TTL),
		LoginLimiter: handlers.NewLoginLimiter(cfg.LoginLimit.Requests, cfg.LoginLimit.Window),
	})

	applog.Debug(context.Background(), "handler dependencies configured",
		"tokens", cfg.Token.Secret != "",
		"loginLimit", cfg.LoginLimit.Requests,
	)

	handler := withRequestID(metrics.Middleware(translator.Middleware(sessionManager.LoadAndSave(newRouter()))))

	applog.Debug(context.Background(), "http handler chain prepared")

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
