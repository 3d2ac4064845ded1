package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey stores the negotiated language.Tag in the request context.
var LocaleKey = localeContextKey{}

// LocaleCookie remembers an explicit language choice.
const LocaleCookie = "lang"

// Supported lists the languages the UI is translated into. The first entry
// is the fallback.
var Supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(Supported)

// I18N negotiates the response language from, in order, the ?lang query
// parameter, the lang cookie, the X-Locale header and Accept-Language. An
// explicit ?lang choice is remembered in the cookie.
func I18N(defaultLocale string) func(http.Handler) http.Handler {
	fallback := matchLocale(defaultLocale)
	if fallback == language.Und {
		fallback = Supported[0]
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if q := strings.TrimSpace(r.URL.Query().Get("lang")); q != "" {
				if tag := matchLocale(q); tag != language.Und {
					http.SetCookie(w, &http.Cookie{Name: LocaleCookie, Value: tag.String(), Path: "/", SameSite: http.SameSiteLaxMode})
				}
			}
			tag := detectLocale(r, fallback)
			w.Header().Set("Content-Language", tag.String())
			ctx := context.WithValue(r.Context(), LocaleKey, tag)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback language.Tag) language.Tag {
	candidates := []string{r.URL.Query().Get("lang")}
	if c, err := r.Cookie(LocaleCookie); err == nil {
		candidates = append(candidates, c.Value)
	}
	candidates = append(candidates, r.Header.Get("X-Locale"))
	for _, v := range candidates {
		if tag := matchLocale(v); tag != language.Und {
			return tag
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf > language.No {
				return Supported[idx]
			}
		}
	}
	return fallback
}

// matchLocale maps a single tag onto a supported language, or Und when it
// matches none of them.
func matchLocale(v string) language.Tag {
	v = strings.TrimSpace(v)
	if v == "" {
		return language.Und
	}
	tag, err := language.Parse(v)
	if err != nil {
		return language.Und
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und
	}
	return Supported[idx]
}

// LocaleFromContext returns the negotiated language, English when unset.
func LocaleFromContext(ctx context.Context) language.Tag {
	if v, ok := ctx.Value(LocaleKey).(language.Tag); ok {
		return v
	}
	return Supported[0]
}
