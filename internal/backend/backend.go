// Package backend selects the demo or live contract and assembles the
// gateway, wallet and image store shared by the server and the CLI.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"crowdfund/internal/chain"
	"crowdfund/internal/demo"
	"crowdfund/internal/domain"
	"crowdfund/internal/gateway"
	"crowdfund/internal/infra"
	"crowdfund/internal/storage"
)

const dialTimeout = 10 * time.Second

// Backend is the assembled application core.
type Backend struct {
	Mode     string
	Network  string
	Gateway  *gateway.Gateway
	Wallet   domain.Wallet
	Uploader storage.Uploader

	closers []func()
}

// Open builds the backend for cfg. A live contract that cannot be reached
// does not fail Open; the gateway reports itself unavailable instead.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Backend, error) {
	b := &Backend{Mode: cfg.Mode, Network: cfg.NetworkName}

	switch cfg.Mode {
	case infra.ModeDemo:
		wallet := demo.NewWallet(cfg.DemoWalletAddress, cfg.DemoAutoConnect)
		ledger, err := demo.NewLedger(cfg.DemoWalletAddress, wallet, demo.WithLatency(cfg.DemoLatency))
		if err != nil {
			return nil, fmt.Errorf("backend: demo ledger: %w", err)
		}
		b.Wallet = wallet
		b.Gateway = gateway.New(ledger, logger)
		logger.Info().Str("wallet", cfg.DemoWalletAddress).Dur("latency", cfg.DemoLatency).Msg("running in demo mode")
	case infra.ModeLive:
		wallet := chain.NewKeyWallet(cfg.WalletKey, cfg.ChainID)
		b.Wallet = wallet
		b.Gateway = b.openLive(ctx, cfg, wallet, logger)
	default:
		return nil, fmt.Errorf("backend: unknown mode %q", cfg.Mode)
	}

	uploader, err := openUploader(cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Uploader = uploader
	return b, nil
}

func (b *Backend) openLive(ctx context.Context, cfg *infra.Config, wallet *chain.KeyWallet, logger zerolog.Logger) *gateway.Gateway {
	if cfg.WalletKey != "" {
		if addr, err := wallet.Connect(ctx); err != nil {
			logger.Warn().Err(err).Msg("wallet key rejected; running read-only")
		} else {
			logger.Info().Str("wallet", addr).Msg("wallet connected")
		}
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	contract, client, err := chain.Dial(dialCtx, cfg.RPCURL, cfg.ContractAddress, wallet)
	if err != nil {
		logger.Error().Err(err).Msg("contract unavailable")
		return gateway.Unavailable(err, logger)
	}
	b.closers = append(b.closers, client.Close)

	id, err := client.ChainID(dialCtx)
	if err != nil {
		logger.Error().Err(err).Str("rpc", cfg.RPCURL).Msg("contract unavailable")
		return gateway.Unavailable(fmt.Errorf("query chain id: %w", err), logger)
	}
	if id.Int64() != cfg.ChainID {
		err := fmt.Errorf("rpc serves chain %s, expected %d", id, cfg.ChainID)
		logger.Error().Err(err).Msg("contract unavailable")
		return gateway.Unavailable(err, logger)
	}

	logger.Info().Str("contract", contract.Address()).Int64("chain_id", cfg.ChainID).Msg("running in live mode")
	return gateway.New(contract, logger)
}

func openUploader(cfg *infra.Config) (storage.Uploader, error) {
	if cfg.CloudinaryURL != "" {
		s, err := storage.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		return s, nil
	}
	s, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return s, nil
}

// Close releases the RPC connection, if any.
func (b *Backend) Close() {
	for _, c := range b.closers {
		c()
	}
	b.closers = nil
}
