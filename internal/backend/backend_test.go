package backend

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/demo"
	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
	"crowdfund/internal/storage"
)

func demoConfig(t *testing.T) *infra.Config {
	return &infra.Config{
		Mode:              infra.ModeDemo,
		NetworkName:       "Base Sepolia",
		DemoWalletAddress: demo.DefaultAddress,
		DemoAutoConnect:   true,
		StorageDir:        t.TempDir(),
		StorageBaseURL:    "http://localhost:8080/static",
	}
}

func TestOpenDemo(t *testing.T) {
	b, err := Open(context.Background(), demoConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.True(t, b.Gateway.Available())
	addr, ok := b.Wallet.Address()
	assert.True(t, ok)
	assert.Equal(t, demo.DefaultAddress, addr)
	assert.IsType(t, &storage.FileStore{}, b.Uploader)

	campaigns, err := b.Gateway.ListCampaigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, campaigns, 4)
}

func TestOpenLiveUnreachableIsUnavailable(t *testing.T) {
	cfg := demoConfig(t)
	cfg.Mode = infra.ModeLive
	cfg.RPCURL = "http://127.0.0.1:1"
	cfg.ContractAddress = "0xA2F8e646Cd243805C5007b9A19f7978109F0106A"
	cfg.ChainID = 84532

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b, err := Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.False(t, b.Gateway.Available())
	_, err = b.Gateway.ListCampaigns(ctx)
	assert.ErrorIs(t, err, domain.ErrContractUnavailable)
	_, ok := b.Wallet.Address()
	assert.False(t, ok)
}

func TestOpenUnknownMode(t *testing.T) {
	cfg := demoConfig(t)
	cfg.Mode = "test"
	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
