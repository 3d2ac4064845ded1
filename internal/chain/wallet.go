package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"

	"crowdfund/internal/domain"
)

// KeyWallet is a wallet backed by a hex-encoded private key from
// configuration. The key is only parsed on Connect.
type KeyWallet struct {
	hexKey  string
	chainID *big.Int

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address string
}

// NewKeyWallet returns a disconnected wallet for hexKey on chainID.
func NewKeyWallet(hexKey string, chainID int64) *KeyWallet {
	return &KeyWallet{
		hexKey:  strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"),
		chainID: big.NewInt(chainID),
	}
}

// Address returns the connected account address.
func (w *KeyWallet) Address() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.address, w.address != ""
}

// Connect parses the configured key and exposes its address.
func (w *KeyWallet) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if w.hexKey == "" {
		return "", errors.New("chain: no wallet key configured")
	}
	key, err := crypto.HexToECDSA(w.hexKey)
	if err != nil {
		return "", fmt.Errorf("chain: load wallet key: %w", err)
	}
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()

	w.mu.Lock()
	w.key = key
	w.address = addr
	w.mu.Unlock()
	return addr, nil
}

// TransactOpts returns signing options for the connected key.
func (w *KeyWallet) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	w.mu.RLock()
	key := w.key
	w.mu.RUnlock()
	if key == nil {
		return nil, domain.ErrWalletNotConnected
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, w.chainID)
	if err != nil {
		return nil, fmt.Errorf("chain: transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}
