package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Auth     AuthConfig     `toml:"auth"`
	Locale   LocaleConfig   `toml:"locale"`
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string        `toml:"url"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn_max_idle_time"`
	UseMock         bool          `toml:"use_mock"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// AuthConfig groups session, token and login throttling settings.
type AuthConfig struct {
	Session    SessionConfig    `toml:"session"`
	Token      TokenConfig      `toml:"token"`
	LoginLimit LoginLimitConfig `toml:"login_limit"`
	BcryptCost int              `toml:"bcrypt_cost"`
}

// SessionConfig controls the cookie session used by the browser pages.
type SessionConfig struct {
	Lifetime     time.Duration `toml:"lifetime"`
	CookieName   string        `toml:"cookie_name"`
	CookieDomain string        `toml:"cookie_domain"`
	CookieSecure bool          `toml:"cookie_secure"`
}

// TokenConfig controls the bearer tokens issued to API clients.
type TokenConfig struct {
	Secret string        `toml:"secret"`
	TTL    time.Duration `toml:"ttl"`
}

// LoginLimitConfig throttles credential checks per client address.
type LoginLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

// LocaleConfig selects the fallback language for user-facing messages.
type LocaleConfig struct {
	Default string `toml:"default"`
}

// Load inspects the optional TOML file named by NOTEKEEPER_CONFIG and the
// environment and builds a Config value. Environment variables win.
func Load() (Config, error) {
	file := Config{}
	if path := strings.TrimSpace(os.Getenv("NOTEKEEPER_CONFIG")); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			file.Server.Addr,
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			file.Database.URL,
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), file.Database.MaxIdleConns),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), file.Database.MaxOpenConns),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), file.Database.ConnMaxLifetime),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), file.Database.ConnMaxIdleTime),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), file.Database.UseMock),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), file.Logging.Level, "info"),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), durationOr(file.Auth.Session.Lifetime, 12*time.Hour)),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), file.Auth.Session.CookieName, "notekeeper_session"),
			CookieDomain: firstNonEmpty(os.Getenv("SESSION_COOKIE_DOMAIN"), file.Auth.Session.CookieDomain),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), file.Auth.Session.CookieSecure),
		},
		Token: TokenConfig{
			Secret: firstNonEmpty(os.Getenv("TOKEN_SECRET"), file.Auth.Token.Secret),
			TTL:    parseDurationWithDefault(os.Getenv("TOKEN_TTL"), durationOr(file.Auth.Token.TTL, 7*24*time.Hour)),
		},
		LoginLimit: LoginLimitConfig{
			Requests: parseIntWithDefault(os.Getenv("LOGIN_RATE_REQUESTS"), intOr(file.Auth.LoginLimit.Requests, 10)),
			Window:   parseDurationWithDefault(os.Getenv("LOGIN_RATE_WINDOW"), durationOr(file.Auth.LoginLimit.Window, time.Minute)),
		},
		BcryptCost: parseIntWithDefault(os.Getenv("BCRYPT_COST"), file.Auth.BcryptCost),
	}

	cfg.Locale = LocaleConfig{
		Default: firstNonEmpty(os.Getenv("DEFAULT_LOCALE"), file.Locale.Default, "en"),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func durationOr(value, def time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return def
}

func intOr(value, def int) int {
	if value > 0 {
		return value
	}
	return def
}
