// Package i18n loads the embedded message catalogues and resolves a
// localizer for each request.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"path"
	"sort"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	applog "notekeeper/internal/log"
)

// LanguageCookie stores an explicit language choice.
const LanguageCookie = "notekeeper_lang"

//go:embed locales/*.toml
var localeFS embed.FS

type localizerKey struct{}

// Translator wraps a message bundle with its default language.
type Translator struct {
	bundle     *goi18n.Bundle
	fallback   language.Tag
	messageIDs []string
}

// New loads every embedded catalogue. defaultLocale picks the fallback
// language and must be one of the shipped catalogues.
func New(defaultLocale string) (*Translator, error) {
	fallback := language.English
	if defaultLocale != "" {
		tag, err := language.Parse(defaultLocale)
		if err != nil {
			return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
		}
		fallback = tag
	}

	bundle := goi18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	ids := make(map[string]struct{})
	for _, entry := range entries {
		name := path.Join("locales", entry.Name())
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		file, err := bundle.ParseMessageFileBytes(data, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for _, msg := range file.Messages {
			ids[msg.ID] = struct{}{}
		}
	}

	supported := false
	for _, tag := range bundle.LanguageTags() {
		if tag == fallback {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("no catalogue for default locale %q", defaultLocale)
	}

	messageIDs := make([]string, 0, len(ids))
	for id := range ids {
		messageIDs = append(messageIDs, id)
	}
	sort.Strings(messageIDs)

	return &Translator{bundle: bundle, fallback: fallback, messageIDs: messageIDs}, nil
}

// Languages lists the shipped catalogues.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// MessageIDs returns every known message id in sorted order.
func (t *Translator) MessageIDs() []string {
	out := make([]string, len(t.messageIDs))
	copy(out, t.messageIDs)
	return out
}

// Localizer picks the first supported language from langs, which may be
// plain tags or Accept-Language header values.
func (t *Translator) Localizer(langs ...string) *goi18n.Localizer {
	return goi18n.NewLocalizer(t.bundle, append(langs, t.fallback.String())...)
}

// ForRequest resolves the localizer from the lang query parameter, the
// language cookie and finally Accept-Language.
func (t *Translator) ForRequest(r *http.Request) *goi18n.Localizer {
	langs := make([]string, 0, 3)
	if lang := r.URL.Query().Get("lang"); lang != "" {
		langs = append(langs, lang)
	}
	if cookie, err := r.Cookie(LanguageCookie); err == nil && cookie.Value != "" {
		langs = append(langs, cookie.Value)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		langs = append(langs, accept)
	}
	return t.Localizer(langs...)
}

// Middleware stores the request's localizer in its context.
func (t *Translator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(r.Context(), t.ForRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *goi18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

// FromContext returns the localizer stored by Middleware, or nil.
func FromContext(ctx context.Context) *goi18n.Localizer {
	l, _ := ctx.Value(localizerKey{}).(*goi18n.Localizer)
	return l
}

// T translates messageID, returning the id itself when it cannot be resolved.
func T(l *goi18n.Localizer, messageID string) string {
	return TWithData(l, messageID, nil)
}

// TWithData translates messageID with template data.
func TWithData(l *goi18n.Localizer, messageID string, data map[string]any) string {
	if l == nil {
		return messageID
	}
	msg, err := l.Localize(&goi18n.LocalizeConfig{MessageID: messageID, TemplateData: data})
	if err != nil {
		applog.Debug(context.Background(), "translation failed", "message_id", messageID, "error", err)
		return messageID
	}
	return msg
}

// TPlural translates a counted message.
func TPlural(l *goi18n.Localizer, messageID string, count int) string {
	if l == nil {
		return messageID
	}
	msg, err := l.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		applog.Debug(context.Background(), "plural translation failed", "message_id", messageID, "error", err)
		return messageID
	}
	return msg
}

// Catalogue translates every known message for l.
func (t *Translator) Catalogue(l *goi18n.Localizer) map[string]string {
	out := make(map[string]string, len(t.messageIDs))
	for _, id := range t.messageIDs {
		if id == "NoteCount" {
			continue
		}
		out[id] = T(l, id)
	}
	return out
}
