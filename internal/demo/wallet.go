package demo

import (
	"context"
	"sync"
)

// DefaultAddress is the account the demo wallet connects as.
const DefaultAddress = "0xabcd1234567890abcd1234567890abcd12345678"

// Wallet is a demo wallet that connects instantly to a fixed address.
type Wallet struct {
	address string

	mu        sync.RWMutex
	connected bool
}

// NewWallet returns a demo wallet for address, already connected when
// autoConnect is set.
func NewWallet(address string, autoConnect bool) *Wallet {
	if address == "" {
		address = DefaultAddress
	}
	return &Wallet{address: address, connected: autoConnect}
}

func (w *Wallet) Address() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.connected {
		return "", false
	}
	return w.address, true
}

func (w *Wallet) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	w.mu.Lock()
	w.connected = true
	w.mu.Unlock()
	return w.address, nil
}
