// Package demo provides an in-memory stand-in for the crowdfunding contract
// and wallet, used when the application runs in demo mode.
package demo

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"crowdfund/internal/domain"
)

var (
	// ErrInsufficientFunds mirrors the contract's revert when a withdrawal
	// exceeds the campaign balance.
	ErrInsufficientFunds = errors.New("insufficient campaign funds")
	// ErrNotOwner mirrors the contract's owner-only withdrawal check.
	ErrNotOwner = errors.New("only the campaign owner can withdraw")
)

type entry struct {
	owner       string
	title       string
	description string
	target      *big.Int
	deadline    int64
	collected   *big.Int
	image       string
	donators    []string
	donations   []*big.Int
}

// Ledger implements domain.Contract in memory. Write calls wait for the
// configured latency before applying, to resemble block confirmation.
type Ledger struct {
	latency time.Duration
	wallet  domain.Wallet
	seed    []byte

	mu      sync.Mutex
	entries []*entry
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLatency sets the simulated confirmation delay for write calls.
func WithLatency(d time.Duration) Option {
	return func(l *Ledger) { l.latency = d }
}

// WithFixtures replaces the embedded seed campaigns.
func WithFixtures(data []byte) Option {
	return func(l *Ledger) { l.seed = data }
}

// NewLedger builds a ledger seeded from fixtures. The wallet signs every
// write; fixture campaigns owned by "wallet" are assigned walletAddr.
func NewLedger(walletAddr string, wallet domain.Wallet, opts ...Option) (*Ledger, error) {
	l := &Ledger{wallet: wallet, seed: defaultFixtures}
	for _, opt := range opts {
		opt(l)
	}
	entries, err := parseFixtures(l.seed, walletAddr, time.Now())
	if err != nil {
		return nil, err
	}
	l.entries = entries
	return l, nil
}

func (l *Ledger) GetCampaigns(ctx context.Context) ([]domain.OnChainCampaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.OnChainCampaign, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, domain.OnChainCampaign{
			Owner:           e.owner,
			Title:           e.title,
			Description:     e.description,
			Target:          new(big.Int).Set(e.target),
			Deadline:        big.NewInt(e.deadline),
			AmountCollected: new(big.Int).Set(e.collected),
			Image:           e.image,
		})
	}
	return out, nil
}

func (l *Ledger) GetDonators(ctx context.Context, id int) ([]string, []*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	donators := append([]string(nil), e.donators...)
	amounts := make([]*big.Int, len(e.donations))
	for i, d := range e.donations {
		amounts[i] = new(big.Int).Set(d)
	}
	return donators, amounts, nil
}

func (l *Ledger) CreateCampaign(ctx context.Context, owner, title, description string, target *big.Int, deadline int64, image string) (string, error) {
	if _, err := l.signer(); err != nil {
		return "", err
	}
	if err := l.confirm(ctx); err != nil {
		return "", err
	}
	l.mu.Lock()
	l.entries = append(l.entries, &entry{
		owner:       owner,
		title:       title,
		description: description,
		target:      new(big.Int).Set(target),
		deadline:    deadline,
		collected:   new(big.Int),
		image:       image,
	})
	l.mu.Unlock()
	return txHash()
}

func (l *Ledger) DonateToCampaign(ctx context.Context, id int, value *big.Int) (string, error) {
	from, err := l.signer()
	if err != nil {
		return "", err
	}
	if value == nil || value.Sign() <= 0 {
		return "", fmt.Errorf("donation must carry value: %w", domain.ErrTransactionFailed)
	}
	if err := l.confirm(ctx); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.lookup(id)
	if err != nil {
		return "", err
	}
	e.donators = append(e.donators, from)
	e.donations = append(e.donations, new(big.Int).Set(value))
	e.collected.Add(e.collected, value)
	return txHash()
}

func (l *Ledger) WithdrawCampaignFunds(ctx context.Context, id int) (string, error) {
	return l.withdraw(ctx, id, nil)
}

func (l *Ledger) WithdrawPartialFunds(ctx context.Context, id int, amount *big.Int) (string, error) {
	if amount == nil || amount.Sign() <= 0 {
		return "", fmt.Errorf("withdrawal must be positive: %w", domain.ErrTransactionFailed)
	}
	return l.withdraw(ctx, id, amount)
}

func (l *Ledger) withdraw(ctx context.Context, id int, amount *big.Int) (string, error) {
	from, err := l.signer()
	if err != nil {
		return "", err
	}
	if err := l.confirm(ctx); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.lookup(id)
	if err != nil {
		return "", err
	}
	if e.owner != from {
		return "", fmt.Errorf("%w: %w", domain.ErrTransactionFailed, ErrNotOwner)
	}
	if amount == nil {
		amount = new(big.Int).Set(e.collected)
	}
	if amount.Cmp(e.collected) > 0 {
		return "", fmt.Errorf("%w: %w", domain.ErrTransactionFailed, ErrInsufficientFunds)
	}
	e.collected.Sub(e.collected, amount)
	return txHash()
}

// lookup requires l.mu.
func (l *Ledger) lookup(id int) (*entry, error) {
	if id < 0 || id >= len(l.entries) {
		return nil, fmt.Errorf("campaign %d: %w", id, domain.ErrNotFound)
	}
	return l.entries[id], nil
}

func (l *Ledger) signer() (string, error) {
	if l.wallet == nil {
		return "", domain.ErrWalletNotConnected
	}
	addr, ok := l.wallet.Address()
	if !ok {
		return "", domain.ErrWalletNotConnected
	}
	return addr, nil
}

func (l *Ledger) confirm(ctx context.Context) error {
	if l.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(l.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func txHash() (string, error) {
	var b [common.HashLength]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("demo: tx hash: %w", err)
	}
	return common.BytesToHash(b[:]).Hex(), nil
}
