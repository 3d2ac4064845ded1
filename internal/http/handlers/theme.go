package handlers

import (
	"net/http"
	"time"

	"crowdfund/internal/theme"
)

const themeCookie = "theme"

// cookieStore persists the theme in a long-lived cookie.
type cookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

func (a *App) themeStore(w http.ResponseWriter, r *http.Request) theme.Store {
	return &cookieStore{w: w, r: r, secure: a.Secure}
}

func (s *cookieStore) Load() (string, bool) {
	c, err := s.r.Cookie(themeCookie)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *cookieStore) Save(value string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     themeCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *App) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme.NewPreference(a.themeStore(w, r)).Toggle()
	redirect(w, r, safeNext(r, "/"))
}
