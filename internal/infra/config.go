package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// Run modes.
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`
	// LogLevel is a zerolog level name; empty picks by environment.
	LogLevel string `env:"LOG_LEVEL"`

	Mode            string `env:"CROWDFUND_MODE" envDefault:"demo"`
	RPCURL          string `env:"RPC_URL"`
	ContractAddress string `env:"CONTRACT_ADDRESS" envDefault:"0xA2F8e646Cd243805C5007b9A19f7978109F0106A"`
	ChainID         int64  `env:"CHAIN_ID" envDefault:"84532"`
	NetworkName     string `env:"NETWORK_NAME" envDefault:"Base Sepolia"`
	WalletKey       string `env:"WALLET_PRIVATE_KEY"`

	DemoLatency       time.Duration `env:"DEMO_LATENCY" envDefault:"3s"`
	DemoWalletAddress string        `env:"DEMO_WALLET_ADDRESS" envDefault:"0xabcd1234567890abcd1234567890abcd12345678"`
	DemoAutoConnect   bool          `env:"DEMO_AUTOCONNECT" envDefault:"true"`

	StorageDir     string `env:"STORAGE_DIR" envDefault:"./uploads"`
	StorageBaseURL string `env:"STORAGE_BASE_URL"`
	CloudinaryURL  string `env:"CLOUDINARY_URL"`

	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
	OTelEndpoint  string `env:"OTEL_ENDPOINT"`

	HTTPReadTimeoutSeconds  int           `env:"HTTP_READ_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPWriteTimeoutSeconds int           `env:"HTTP_WRITE_TIMEOUT_SECONDS" envDefault:"30"`
	HTTPIdleTimeoutSeconds  int           `env:"HTTP_IDLE_TIMEOUT_SECONDS" envDefault:"60"`
	RateLimitPerMin         int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	SessionTTL              time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	CORSOrigins             []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	HTTPReadTimeout  time.Duration `env:"-"`
	HTTPWriteTimeout time.Duration `env:"-"`
	HTTPIdleTimeout  time.Duration `env:"-"`
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.StorageBaseURL == "" {
		cfg.StorageBaseURL = "http://localhost:" + cfg.Port + "/static"
	}
	cfg.StorageBaseURL = strings.TrimRight(cfg.StorageBaseURL, "/")
	origins := cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins
	cfg.HTTPReadTimeout = time.Duration(cfg.HTTPReadTimeoutSeconds) * time.Second
	cfg.HTTPWriteTimeout = time.Duration(cfg.HTTPWriteTimeoutSeconds) * time.Second
	cfg.HTTPIdleTimeout = time.Duration(cfg.HTTPIdleTimeoutSeconds) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeDemo:
		if !common.IsHexAddress(c.DemoWalletAddress) {
			return fmt.Errorf("DEMO_WALLET_ADDRESS %q is not a hex address", c.DemoWalletAddress)
		}
	case ModeLive:
		if c.RPCURL == "" {
			return fmt.Errorf("RPC_URL is required in live mode")
		}
		if !common.IsHexAddress(c.ContractAddress) {
			return fmt.Errorf("CONTRACT_ADDRESS %q is not a hex address", c.ContractAddress)
		}
		if c.ChainID <= 0 {
			return fmt.Errorf("CHAIN_ID must be positive")
		}
	default:
		return fmt.Errorf("CROWDFUND_MODE must be %q or %q, got %q", ModeDemo, ModeLive, c.Mode)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
