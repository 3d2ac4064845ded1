package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"crowdfund/internal/domain"
	"crowdfund/internal/gateway"
	"crowdfund/internal/middleware"
	"crowdfund/internal/session"
	"crowdfund/internal/storage"
	"crowdfund/internal/theme"
	"crowdfund/internal/views"
)

type App struct {
	Gateway  *gateway.Gateway
	Wallet   domain.Wallet
	Uploader storage.Uploader
	Views    *views.Renderer
	Network  string
	Mode     string
	Secure   bool
	Logger   zerolog.Logger
	Now      func() time.Time
}

func NewApp(gw *gateway.Gateway, wallet domain.Wallet, uploader storage.Uploader, renderer *views.Renderer, logger zerolog.Logger) *App {
	return &App{
		Gateway:  gw,
		Wallet:   wallet,
		Uploader: uploader,
		Views:    renderer,
		Logger:   logger,
		Now:      time.Now,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: msg}})
}

func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

// base collects the values every page needs for this request.
func (a *App) base(w http.ResponseWriter, r *http.Request) views.Base {
	mode := theme.NewPreference(a.themeStore(w, r)).Mode()
	b := a.Views.Base(mode, middleware.LocaleFromContext(r.Context()))
	if addr, ok := a.Wallet.Address(); ok {
		b.Wallet = addr
	}
	b.Network = a.Network
	b.Path = r.URL.Path
	return b
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := a.Views.Render(w, page, data); err != nil {
		a.logger(r).Error().Err(err).Str("page", page).Msg("render failed")
	}
}

// fail renders the error page for err.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger(r).Error().Err(err).Msg("request failed")
	}
	a.render(w, r, status, views.PageError, views.ErrorPage{Base: a.base(w, r), Status: status, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWalletNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrContractUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (a *App) session(r *http.Request) *session.Session {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		panic("handlers: session middleware not installed")
	}
	return s
}

func campaignID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// redirect answers a form post with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// safeNext returns the form's local "next" path, or fallback.
func safeNext(r *http.Request, fallback string) string {
	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
