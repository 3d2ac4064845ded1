package infra

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "PORT", "CROWDFUND_MODE", "RPC_URL", "CONTRACT_ADDRESS", "CHAIN_ID", "NETWORK_NAME",
		"WALLET_PRIVATE_KEY", "DEMO_LATENCY", "DEMO_WALLET_ADDRESS", "STORAGE_BASE_URL",
		"RATE_LIMIT_PER_MINUTE", "HTTP_READ_TIMEOUT_SECONDS", "SESSION_TTL", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Mode != ModeDemo {
		t.Fatalf("Mode mismatch: got %q want %q", cfg.Mode, ModeDemo)
	}
	if cfg.DemoLatency != 3*time.Second {
		t.Fatalf("DemoLatency mismatch: got %s", cfg.DemoLatency)
	}
	if cfg.ChainID != 84532 || cfg.NetworkName != "Base Sepolia" {
		t.Fatalf("network mismatch: got %d %q", cfg.ChainID, cfg.NetworkName)
	}
	if cfg.HTTPReadTimeout != 15*time.Second {
		t.Fatalf("HTTPReadTimeout mismatch: got %s", cfg.HTTPReadTimeout)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "1919")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:1919/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigHonorsExplicitStorageBaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_BASE_URL", "https://cdn.example.com/static/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "https://cdn.example.com/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigModeValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "unknown mode", env: map[string]string{"CROWDFUND_MODE": "test"}, wantErr: "CROWDFUND_MODE"},
		{name: "live without rpc", env: map[string]string{"CROWDFUND_MODE": "live"}, wantErr: "RPC_URL"},
		{name: "live bad contract", env: map[string]string{"CROWDFUND_MODE": "live", "RPC_URL": "http://x", "CONTRACT_ADDRESS": "0x12"}, wantErr: "CONTRACT_ADDRESS"},
		{name: "demo bad wallet", env: map[string]string{"DEMO_WALLET_ADDRESS": "nope"}, wantErr: "DEMO_WALLET_ADDRESS"},
		{name: "bad latency", env: map[string]string{"DEMO_LATENCY": "soon"}, wantErr: "DemoLatency"},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loudest"}, wantErr: "LOG_LEVEL"},
		{name: "live ok", env: map[string]string{"CROWDFUND_MODE": " LIVE ", "RPC_URL": "http://localhost:8545"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{AppEnv: "production", Mode: ModeDemo}, &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, `"service":"crowdfund"`) || !strings.Contains(out, `"mode":"demo"`) {
		t.Fatalf("missing service fields: %s", out)
	}
}

func TestLogLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{AppEnv: "production", LogLevel: "warn"}, &buf)
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestSetupTracingNoopWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "crowdfund-test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
