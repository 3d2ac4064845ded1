package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service logger: JSON on stdout, or a console writer
// in development. LOG_LEVEL overrides the environment's default level.
func NewLogger(cfg *Config) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, out io.Writer) zerolog.Logger {
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(cfg.logLevel()).
		With().
		Timestamp().
		Str("service", "crowdfund").
		Str("mode", cfg.Mode).
		Logger()
}

func (c *Config) logLevel() zerolog.Level {
	if c.LogLevel != "" {
		if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
			return lvl
		}
	}
	if c.IsDevelopment() {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
