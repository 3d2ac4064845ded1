package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"crowdfund/internal/http/handlers"
	"crowdfund/internal/middleware"
	"crowdfund/internal/session"
)

// Options configures the router's middleware.
type Options struct {
	Logger          zerolog.Logger
	Sessions        *session.Registry
	DefaultLocale   string
	RateLimitPerMin int
	CORSOrigins     []string
	StaticDir       string
	SecureCookies   bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.I18N(opts.DefaultLocale),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(opts.CORSOrigins))
		r.Get("/campaigns", app.APICampaigns)
		r.Get("/campaigns/{id}/donations", app.APIDonations)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(opts.Sessions, opts.SecureCookies))

		r.Get("/", app.Home)
		r.Get("/profile", app.Profile)
		r.Get("/create-campaign", app.CreateCampaignForm)
		r.Post("/create-campaign", app.CreateCampaign)
		r.Get("/campaign-details/{id}", app.CampaignDetails)

		r.Route("/payment/{id}", func(r chi.Router) {
			r.Get("/", app.Payment)
			r.Post("/preset", app.PaymentPreset())
			r.Post("/custom", app.PaymentCustom())
			r.Post("/options", app.PaymentOptions())
			r.Post("/back", app.PaymentBack())
			r.Post("/confirm", app.PaymentConfirm())
			r.Post("/reset", app.PaymentReset())
		})

		r.Route("/withdraw", func(r chi.Router) {
			r.Get("/", app.Withdraw)
			r.Post("/select", app.WithdrawSelect)
			r.Post("/amount", app.WithdrawAmount)
			r.Post("/max", app.WithdrawMax)
			r.Post("/submit", app.WithdrawSubmit)
		})

		r.Post("/theme/toggle", app.ToggleTheme)
		r.Post("/connect", app.Connect)
	})

	return r
}
