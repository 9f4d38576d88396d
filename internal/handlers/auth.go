package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"notekeeper/internal/auth"
	"notekeeper/internal/i18n"
	applog "notekeeper/internal/log"
	"notekeeper/internal/workspace"
	"notekeeper/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionLoginMessageKey  = "auth:message"
	sessionUserNameKey      = "auth:user:name"
	sessionUserThemeKey     = "auth:user:theme"
	sessionAccountKey       = "auth:user:account"
)

type usernameKey struct{}

// Dependencies are the shared collaborators of the HTTP handlers.
type Dependencies struct {
	Sessions     *scs.SessionManager
	Workspace    *workspace.Service
	Translator   *i18n.Translator
	Tokens       *auth.Tokens
	LoginLimiter *LoginLimiter
}

var (
	sessionManager *scs.SessionManager
	service        *workspace.Service
	translator     *i18n.Translator
	tokens         *auth.Tokens
	loginLimiter   *LoginLimiter
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(deps Dependencies) {
	sessionManager = deps.Sessions
	service = deps.Workspace
	translator = deps.Translator
	tokens = deps.Tokens
	loginLimiter = deps.LoginLimiter
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserNameKey, user.Username)
	sessionManager.Put(r.Context(), sessionAccountKey, user.AccountStamp())
	sessionManager.Put(r.Context(), sessionUserThemeKey, models.NormalizeTheme(user.Theme))
	return nil
}

func setSessionTheme(r *http.Request, theme string) {
	if sessionManager == nil {
		return
	}
	sessionManager.Put(r.Context(), sessionUserThemeKey, theme)
}

func sessionTheme(r *http.Request) string {
	if sessionManager == nil {
		return models.DefaultTheme
	}
	return models.NormalizeTheme(sessionManager.GetString(r.Context(), sessionUserThemeKey))
}

// sessionUsername returns the username stored in the session, if any.
func sessionUsername(r *http.Request) (string, bool) {
	if sessionManager == nil {
		return "", false
	}
	if !sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) {
		return "", false
	}
	username := sessionManager.GetString(r.Context(), sessionUserNameKey)
	return username, username != ""
}

// bearerClaims resolves the Authorization header. present is true when a
// bearer token was supplied, even if it failed verification.
func bearerClaims(r *http.Request) (claims *auth.Claims, present bool) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, false
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		applog.Debug(r.Context(), "bearer token rejected", "error", err)
		return nil, true
	}
	return claims, true
}

// credential is who a request claims to be, before the account is checked.
type credential struct {
	username string
	account  int64
	session  bool
}

// requestCredential prefers a bearer token over the session cookie.
func requestCredential(r *http.Request) (credential, bool) {
	if claims, present := bearerClaims(r); present {
		if claims == nil {
			return credential{}, false
		}
		return credential{username: claims.Username(), account: claims.Account}, true
	}
	username, ok := sessionUsername(r)
	if !ok {
		return credential{}, false
	}
	return credential{username: username, account: sessionManager.GetInt64(r.Context(), sessionAccountKey), session: true}, true
}

// currentUsername returns the authenticated username for the request.
func currentUsername(r *http.Request) (string, bool) {
	if username, ok := r.Context().Value(usernameKey{}).(string); ok && username != "" {
		return username, true
	}
	cred, ok := requestCredential(r)
	return cred.username, ok
}

// verifyAccount checks that the credential still names the account it was
// issued for: deleted accounts and accounts registered again under the same
// name both fail. A session whose account is gone is destroyed.
func verifyAccount(r *http.Request, cred credential) error {
	if service == nil {
		return nil
	}
	user, err := service.Account(r.Context(), cred.username)
	if err == nil && user.AccountStamp() != cred.account {
		err = workspace.ErrUnknownAccount
	}
	if errors.Is(err, workspace.ErrUnknownAccount) {
		applog.Info(r.Context(), "credential for a deleted account rejected", "username", cred.username)
		if cred.session {
			if destroyErr := sessionManager.Destroy(r.Context()); destroyErr != nil {
				applog.Error(r.Context(), "failed to destroy session", "error", destroyErr)
			}
		}
	}
	return err
}

func withUsername(r *http.Request, username string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), usernameKey{}, username))
}

// RequireAuthentication ensures the user has an active session before accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := sessionUsername(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		cred := credential{
			username: username,
			account:  sessionManager.GetInt64(r.Context(), sessionAccountKey),
			session:  true,
		}
		if err := verifyAccount(r, cred); err != nil {
			if !errors.Is(err, workspace.ErrUnknownAccount) {
				applog.Error(r.Context(), "failed to verify account", "error", err)
			}
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, withUsername(r, username))
	})
}

// RequireAPIAuthentication accepts a session cookie or a bearer token and
// answers 401 instead of redirecting.
func RequireAPIAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, ok := requestCredential(r)
		if !ok {
			applog.Debug(r.Context(), "api request without credentials", "path", r.URL.Path)
			writeJSONError(w, http.StatusUnauthorized, translate(r, "Unauthorized"))
			return
		}
		if err := verifyAccount(r, cred); err != nil {
			respondError(w, r, "authenticate", err)
			return
		}
		next.ServeHTTP(w, withUsername(r, cred.username))
	})
}

// Logout destroys the current session and redirects the user to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}

	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/login")
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/app")
}

func redirectTo(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	_, ok := sessionUsername(r)
	return ok
}

func localizer(r *http.Request) *goi18n.Localizer {
	if l := i18n.FromContext(r.Context()); l != nil {
		return l
	}
	if translator != nil {
		return translator.ForRequest(r)
	}
	return nil
}

// translate resolves a message id for the request, falling back to English
// text baked into fallbackMessages when no translator is configured.
func translate(r *http.Request, messageID string) string {
	if l := localizer(r); l != nil {
		return i18n.T(l, messageID)
	}
	if msg, ok := fallbackMessages[messageID]; ok {
		return msg
	}
	return messageID
}

var fallbackMessages = map[string]string{
	"Unauthorized":       "Please sign in.",
	"InvalidCredentials": "Invalid username or password!",
	"MissingCredentials": "Fill in your details.",
	"TooManyRequests":    "Too many attempts. Try again in a moment.",
	"Unexpected":         "Something went wrong. Please try again.",
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
