// Package withdraw implements the owner's withdrawal screen: pick a funded
// campaign, enter an amount bounded by its balance, and submit.
package withdraw

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
)

var (
	// ErrBusy rejects a submission while another is in flight.
	ErrBusy = errors.New("withdrawal already in progress")
	// ErrNoSelection rejects actions that need a selected campaign.
	ErrNoSelection = errors.New("no campaign selected")
	// ErrNoAmount rejects a submission without a positive amount.
	ErrNoAmount = errors.New("withdrawal amount must be greater than zero")
)

// Withdrawer performs the withdrawal call. An empty amount withdraws the
// whole balance.
type Withdrawer interface {
	Withdraw(ctx context.Context, campaignID int, amount string) (string, error)
}

// Receipt describes a completed withdrawal.
type Receipt struct {
	CampaignID int
	Title      string
	Amount     string
	Full       bool
	TxHash     string
}

// Summary is the cost breakdown shown before submitting.
type Summary struct {
	Amount       string
	EstimatedGas string
	TotalCost    string
}

// Flow holds the withdrawal screen state for one owner.
type Flow struct {
	gw     Withdrawer
	logger zerolog.Logger

	mu         sync.Mutex
	campaigns  []domain.Campaign
	selected   int
	hasSel     bool
	amount     string
	submitting bool
}

// NewFlow returns an empty flow.
func NewFlow(gw Withdrawer, logger zerolog.Logger) *Flow {
	return &Flow{gw: gw, logger: logger.With().Str("component", "withdraw").Logger()}
}

// Load replaces the campaign list, keeping only campaigns with funds. The
// selection survives if its campaign is still listed.
func (f *Flow) Load(campaigns []domain.Campaign) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.campaigns = f.campaigns[:0]
	for _, c := range campaigns {
		if balance(c).Sign() > 0 {
			f.campaigns = append(f.campaigns, c)
		}
	}
	if f.hasSel && f.indexOf(f.selected) < 0 {
		f.clearSelection()
	}
}

// Campaigns returns the funded campaigns.
func (f *Flow) Campaigns() []domain.Campaign {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Campaign(nil), f.campaigns...)
}

// Selected returns the selected campaign, if any.
func (f *Flow) Selected() (domain.Campaign, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasSel {
		return domain.Campaign{}, false
	}
	return f.campaigns[f.indexOf(f.selected)], true
}

// Amount returns the last accepted amount.
func (f *Flow) Amount() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount
}

// Submitting reports whether a withdrawal is in flight.
func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Select chooses a listed campaign and clears the amount.
func (f *Flow) Select(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.indexOf(id) < 0 {
		return fmt.Errorf("campaign %d: %w", id, domain.ErrNotFound)
	}
	f.selected = id
	f.hasSel = true
	f.amount = ""
	return nil
}

// SetAmount accepts input only when it is a number between zero and the
// selected campaign's balance; otherwise the previous amount is kept.
// Empty input clears the amount.
func (f *Flow) SetAmount(input string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hasSel {
		return false
	}
	input = strings.TrimSpace(input)
	if input == "" {
		f.amount = ""
		return true
	}
	wei, err := format.ParseEther(input)
	if err != nil || wei.Sign() < 0 {
		return false
	}
	if wei.Cmp(balance(f.campaigns[f.indexOf(f.selected)])) > 0 {
		return false
	}
	f.amount = input
	return true
}

// Max sets the amount to the selected campaign's full balance.
func (f *Flow) Max() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hasSel {
		return ErrNoSelection
	}
	f.amount = f.campaigns[f.indexOf(f.selected)].AmountCollected
	return nil
}

// Summary returns the cost breakdown for the current amount.
func (f *Flow) Summary() (Summary, bool) {
	amount := f.Amount()
	if amount == "" {
		return Summary{}, false
	}
	total, err := format.TotalCost(amount)
	if err != nil {
		return Summary{}, false
	}
	return Summary{Amount: amount, EstimatedGas: format.EstimatedGas, TotalCost: total}, true
}

// Submit withdraws the current amount from the selected campaign. Taking
// the whole balance is sent as a full withdrawal. On success the local
// balance is reduced, emptied campaigns are dropped, and the selection and
// amount are cleared.
func (f *Flow) Submit(ctx context.Context) (Receipt, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Receipt{}, ErrBusy
	}
	if !f.hasSel {
		f.mu.Unlock()
		return Receipt{}, ErrNoSelection
	}
	campaign := f.campaigns[f.indexOf(f.selected)]
	amount := f.amount
	wei, err := format.ParseEther(amount)
	if amount == "" || err != nil || wei.Sign() <= 0 {
		f.mu.Unlock()
		return Receipt{}, ErrNoAmount
	}
	full := wei.Cmp(balance(campaign)) == 0
	f.submitting = true
	f.mu.Unlock()

	request := amount
	if full {
		request = ""
	}
	hash, err := f.gw.Withdraw(ctx, campaign.ID, request)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.logger.Error().Err(err).Int("campaign", campaign.ID).Str("amount", amount).Msg("withdrawal failed")
		return Receipt{}, err
	}

	f.debit(campaign.ID, wei)
	f.clearSelection()
	f.logger.Info().Int("campaign", campaign.ID).Str("amount", amount).Bool("full", full).Str("tx", hash).Msg("withdrawal confirmed")
	return Receipt{CampaignID: campaign.ID, Title: campaign.Title, Amount: amount, Full: full, TxHash: hash}, nil
}

// debit requires f.mu.
func (f *Flow) debit(id int, wei *big.Int) {
	kept := f.campaigns[:0]
	for _, c := range f.campaigns {
		if c.ID == id {
			left := new(big.Int).Sub(balance(c), wei)
			if left.Sign() <= 0 {
				continue
			}
			c.AmountCollected = format.FormatEther(left)
		}
		kept = append(kept, c)
	}
	f.campaigns = kept
}

// indexOf requires f.mu.
func (f *Flow) indexOf(id int) int {
	for i, c := range f.campaigns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// clearSelection requires f.mu.
func (f *Flow) clearSelection() {
	f.hasSel = false
	f.selected = 0
	f.amount = ""
}

func balance(c domain.Campaign) *big.Int {
	wei, err := format.ParseEther(c.AmountCollected)
	if err != nil {
		return new(big.Int)
	}
	return wei
}
