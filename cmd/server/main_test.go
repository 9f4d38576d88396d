package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"gorm.io/gorm"

	"notekeeper/internal/config"
	"notekeeper/internal/server"
)

// fakeServer records its lifecycle. Start blocks until Stop when hold is set.
type fakeServer struct {
	startErr error
	stopErr  error
	hold     bool

	started chan struct{}
	release chan struct{}
	stopped bool
}

func newFakeServer(startErr error, hold bool) *fakeServer {
	return &fakeServer{startErr: startErr, hold: hold, started: make(chan struct{}), release: make(chan struct{})}
}

func (s *fakeServer) Start() error {
	close(s.started)
	if s.hold {
		<-s.release
	}
	return s.startErr
}

func (s *fakeServer) Stop() error {
	s.stopped = true
	close(s.release)
	return s.stopErr
}

// hooks swaps every injectable dependency of run for the duration of a test.
type hooks struct {
	cfg      config.Config
	database *gorm.DB
	server   *fakeServer
	signals  chan os.Signal

	built     *server.Config
	mockUsed  bool
	urlOpened string
}

func installHooks(t *testing.T, cfg config.Config, srv *fakeServer) *hooks {
	t.Helper()
	originalLoad, originalLevel := loadConfigFunc, setLogLevelFunc
	originalMock, originalConfigure := newMockDatabaseFunc, configureDatabase
	originalServer, originalSignals := newServerFunc, subscribeShutdownSig
	t.Cleanup(func() {
		loadConfigFunc, setLogLevelFunc = originalLoad, originalLevel
		newMockDatabaseFunc, configureDatabase = originalMock, originalConfigure
		newServerFunc, subscribeShutdownSig = originalServer, originalSignals
	})

	h := &hooks{cfg: cfg, database: &gorm.DB{}, server: srv, signals: make(chan os.Signal, 1)}
	loadConfigFunc = func() (config.Config, error) { return h.cfg, nil }
	setLogLevelFunc = func(string) error { return nil }
	newMockDatabaseFunc = func(context.Context) (*gorm.DB, error) {
		h.mockUsed = true
		return h.database, nil
	}
	configureDatabase = func(dbCfg config.DatabaseConfig) (*gorm.DB, error) {
		h.urlOpened = dbCfg.URL
		return h.database, nil
	}
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		h.built = &cfg
		return h.server, nil
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		return h.signals, func() {}
	}
	return h
}

func TestRunWiresConfigurationIntoServer(t *testing.T) {
	cfg := config.Config{
		Server:   config.ServerConfig{Addr: ":9000"},
		Database: config.DatabaseConfig{URL: "file:notes.db"},
		Logging:  config.LoggingConfig{Level: "debug"},
		Auth: config.AuthConfig{
			Session:    config.SessionConfig{Lifetime: time.Hour, CookieName: "nk", CookieDomain: "notes.test", CookieSecure: true},
			Token:      config.TokenConfig{Secret: "s3cret", TTL: 30 * time.Minute},
			LoginLimit: config.LoginLimitConfig{Requests: 5, Window: time.Minute},
			BcryptCost: 11,
		},
		Locale: config.LocaleConfig{Default: "pl"},
	}
	h := installHooks(t, cfg, newFakeServer(http.ErrServerClosed, true))

	go func() {
		<-h.server.started
		h.signals <- syscall.SIGTERM
	}()

	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if h.built == nil {
		t.Fatal("expected server to be built")
	}
	got := *h.built
	want := server.Config{
		Addr:          ":9000",
		Session:       server.SessionConfig{Lifetime: time.Hour, CookieName: "nk", CookieDomain: "notes.test", CookieSecure: true},
		Token:         server.TokenConfig{Secret: "s3cret", TTL: 30 * time.Minute},
		LoginLimit:    server.LoginLimitConfig{Requests: 5, Window: time.Minute},
		BcryptCost:    11,
		DefaultLocale: "pl",
		Database:      h.database,
	}
	if got != want {
		t.Fatalf("server config mismatch:\n got %+v\nwant %+v", got, want)
	}
	if h.urlOpened != "file:notes.db" || h.mockUsed {
		t.Fatalf("expected the configured URL to be opened, got url=%q mock=%t", h.urlOpened, h.mockUsed)
	}
	if !h.server.stopped {
		t.Fatal("expected graceful stop after SIGTERM")
	}
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	h := installHooks(t, config.Config{Database: config.DatabaseConfig{UseMock: true}}, newFakeServer(nil, true))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-h.server.started
		cancel()
	}()

	if code := run(ctx); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !h.mockUsed || !h.server.stopped {
		t.Fatalf("expected mock database and a stopped server, got mock=%t stopped=%t", h.mockUsed, h.server.stopped)
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		server *fakeServer
		tweak  func(h *hooks)
	}{
		{
			name: "config error",
			cfg:  config.Config{Database: config.DatabaseConfig{UseMock: true}},
			tweak: func(*hooks) {
				loadConfigFunc = func() (config.Config, error) { return config.Config{}, errors.New("bad toml") }
			},
		},
		{
			name:  "invalid log level",
			cfg:   config.Config{Database: config.DatabaseConfig{UseMock: true}},
			tweak: func(*hooks) { setLogLevelFunc = func(string) error { return errors.New("invalid level") } },
		},
		{
			name: "database refused",
			cfg:  config.Config{Database: config.DatabaseConfig{URL: "postgres://example"}},
			tweak: func(*hooks) {
				configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("connection refused") }
			},
		},
		{
			name: "no database configured",
			cfg:  config.Config{},
		},
		{
			name: "unknown locale",
			cfg:  config.Config{Database: config.DatabaseConfig{UseMock: true}},
			tweak: func(*hooks) {
				newServerFunc = func(server.Config) (serverLifecycle, error) { return nil, errors.New("no catalogue for xx") }
			},
		},
		{
			name:   "listener failure",
			cfg:    config.Config{Database: config.DatabaseConfig{UseMock: true}},
			server: newFakeServer(errors.New("address in use"), false),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := tc.server
			if srv == nil {
				srv = newFakeServer(nil, false)
			}
			h := installHooks(t, tc.cfg, srv)
			if tc.tweak != nil {
				tc.tweak(h)
			}
			if code := run(context.Background()); code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
			if srv.stopped {
				t.Fatal("server must not be stopped when it never ran")
			}
		})
	}
}

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		wantMock bool
		wantURL  string
		wantErr  error
	}{
		{name: "mock flag wins over url", cfg: config.DatabaseConfig{UseMock: true, URL: "file:notes.db"}, wantMock: true},
		{name: "url", cfg: config.DatabaseConfig{URL: "postgres://db/notes"}, wantURL: "postgres://db/notes"},
		{name: "nothing configured", cfg: config.DatabaseConfig{URL: "  "}, wantErr: errNoDatabase},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := installHooks(t, config.Config{}, newFakeServer(nil, false))
			_, err := openDatabase(context.Background(), tc.cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("openDatabase error = %v, want %v", err, tc.wantErr)
			}
			if h.mockUsed != tc.wantMock || h.urlOpened != tc.wantURL {
				t.Fatalf("got mock=%t url=%q, want mock=%t url=%q", h.mockUsed, h.urlOpened, tc.wantMock, tc.wantURL)
			}
		})
	}
}
