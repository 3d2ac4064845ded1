package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"crowdfund/internal/backend"
	"crowdfund/internal/http/handlers"
	httpapi "crowdfund/internal/http/httpapi"
	"crowdfund/internal/infra"
	"crowdfund/internal/session"
	"crowdfund/internal/storage"
	"crowdfund/internal/views"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := infra.SetupTracing(ctx, "crowdfund-api", cfg.OTelEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up tracing")
	}

	be, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open backend")
	}
	defer be.Close()

	renderer, err := views.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	app := handlers.NewApp(be.Gateway, be.Wallet, be.Uploader, renderer, logger)
	app.Network = be.Network
	app.Mode = be.Mode
	app.Secure = !cfg.IsDevelopment()

	opts := httpapi.Options{
		Logger:          logger,
		Sessions:        session.NewRegistry(cfg.SessionTTL, be.Gateway, be.Wallet, be.Gateway, logger),
		DefaultLocale:   cfg.DefaultLocale,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CORSOrigins:     cfg.CORSOrigins,
		SecureCookies:   app.Secure,
	}
	if fs, ok := be.Uploader.(*storage.FileStore); ok {
		opts.StaticDir = fs.BasePath()
	}

	server := infra.NewHTTPServer(ctx, cfg, httpapi.NewRouter(app, opts))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Str("mode", cfg.Mode).Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		be.Close()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
