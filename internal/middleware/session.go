package middleware

import (
	"context"
	"net/http"

	"crowdfund/internal/session"
)

// SessionCookie carries the browser's session id.
const SessionCookie = "crowdfund_sid"

type sessionContextKey struct{}

// Session resolves the browser session from its cookie, issuing a new
// cookie whenever the registry hands out a fresh session.
func Session(reg *session.Registry, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
			s := reg.Get(id)
			if s.ID != id {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    s.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sessionContextKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session attached by Session.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*session.Session)
	return s, ok
}
