package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
)

const (
	// MsgConnectWallet is shown when a donation is confirmed without a wallet.
	MsgConnectWallet = "Please connect your wallet first"
	// MsgTransactionFailed is shown when a failure carries no message.
	MsgTransactionFailed = "Transaction failed. Please try again."
)

var (
	// ErrBusy rejects a confirmation while a donation is in flight.
	ErrBusy = errors.New("donation already in progress")
	// ErrWrongStep rejects an action the current screen does not offer.
	ErrWrongStep = errors.New("action not available in current step")
)

// Donor submits a donation and returns the transaction hash.
type Donor interface {
	Donate(ctx context.Context, campaignID int, amount string) (string, error)
}

// AddressSource reports the connected wallet address.
type AddressSource interface {
	Address() (string, bool)
}

// Wizard drives one donation session for one campaign. It is safe for
// concurrent use; at most one donation request is outstanding at a time.
type Wizard struct {
	campaign domain.Campaign
	donor    Donor
	wallet   AddressSource
	logger   zerolog.Logger

	mu    sync.Mutex
	state State
	done  chan struct{}
}

// NewWizard starts a wizard on the amount screen.
func NewWizard(campaign domain.Campaign, donor Donor, wallet AddressSource, logger zerolog.Logger) *Wizard {
	return &Wizard{
		campaign: campaign,
		donor:    donor,
		wallet:   wallet,
		logger:   logger.With().Str("component", "payment").Int("campaign", campaign.ID).Logger(),
		state:    Amount{},
	}
}

// Campaign returns the campaign being donated to.
func (w *Wizard) Campaign() domain.Campaign {
	return w.campaign
}

// State returns the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SelectPreset moves to preview with a preset amount. It reports false and
// leaves the state unchanged when the amount is not a positive number.
func (w *Wizard) SelectPreset(amount string) (bool, error) {
	return w.choose(amount)
}

// SubmitCustom moves to preview with a typed amount. Non-numeric and
// non-positive input is ignored.
func (w *Wizard) SubmitCustom(input string) (bool, error) {
	return w.choose(input)
}

func (w *Wizard) choose(input string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.state.(Amount)
	if !ok {
		return false, fmt.Errorf("choose amount in %s: %w", w.state.Step(), ErrWrongStep)
	}
	amount, valid := positiveAmount(input)
	if !valid {
		return false, nil
	}
	w.transition(Preview{Amount: amount, Options: cur.Options})
	return true, nil
}

// SetOptions updates the message and anonymity flag on the amount screen.
func (w *Wizard) SetOptions(opts Options) error {
	return w.editOptions(func(o *Options) { *o = opts })
}

// SetMessage changes the donor's message, keeping the anonymity flag.
func (w *Wizard) SetMessage(msg string) error {
	return w.editOptions(func(o *Options) { o.Message = msg })
}

// SetAnonymous changes the anonymity flag, keeping the message.
func (w *Wizard) SetAnonymous(anonymous bool) error {
	return w.editOptions(func(o *Options) { o.Anonymous = anonymous })
}

func (w *Wizard) editOptions(edit func(*Options)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.state.(Amount)
	if !ok {
		return fmt.Errorf("set options in %s: %w", w.state.Step(), ErrWrongStep)
	}
	edit(&cur.Options)
	w.state = cur
	return nil
}

// Back returns to the amount screen from preview, or retries from an error.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.(type) {
	case Preview, Failure:
		w.transition(Amount{Options: w.state.options()})
		return nil
	default:
		return fmt.Errorf("back from %s: %w", w.state.Step(), ErrWrongStep)
	}
}

// Confirm submits the previewed donation. Without a connected wallet it
// moves straight to an error and issues no request. Otherwise it moves to
// processing and issues exactly one donation request in the background; the
// request is not cancelled when ctx is.
func (w *Wizard) Confirm(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var preview Preview
	switch s := w.state.(type) {
	case Preview:
		preview = s
	case Processing:
		return ErrBusy
	default:
		return fmt.Errorf("confirm in %s: %w", s.Step(), ErrWrongStep)
	}

	if addr, ok := w.wallet.Address(); !ok || addr == "" {
		w.transition(Failure{Amount: preview.Amount, Options: preview.Options, Message: MsgConnectWallet})
		return nil
	}

	w.transition(Processing{Amount: preview.Amount, Options: preview.Options})
	done := make(chan struct{})
	w.done = done
	go w.submit(context.WithoutCancel(ctx), preview, done)
	return nil
}

func (w *Wizard) submit(ctx context.Context, preview Preview, done chan struct{}) {
	defer close(done)

	hash, err := w.donor.Donate(ctx, w.campaign.ID, preview.Amount)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.logger.Error().Err(err).Str("amount", preview.Amount).Msg("donation failed")
		w.transition(Failure{Amount: preview.Amount, Options: preview.Options, Message: failureMessage(err)})
		return
	}
	if hash == "" {
		w.transition(Failure{Amount: preview.Amount, Options: preview.Options, Message: MsgTransactionFailed})
		return
	}
	w.logger.Info().Str("amount", preview.Amount).Str("tx", hash).Msg("donation confirmed")
	w.transition(Success{Amount: preview.Amount, Options: preview.Options, TxHash: hash})
}

// Wait blocks until no donation is in flight and returns the state.
func (w *Wizard) Wait(ctx context.Context) (State, error) {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return w.State(), ctx.Err()
		}
	}
	return w.State(), nil
}

// Reset discards the session and starts over on the amount screen. It is
// refused while a donation is in flight.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.state.(Processing); ok {
		return ErrBusy
	}
	w.transition(Amount{})
	return nil
}

// transition requires w.mu.
func (w *Wizard) transition(next State) {
	w.logger.Debug().Stringer("from", w.state.Step()).Stringer("to", next.Step()).Msg("wizard transition")
	w.state = next
}

func positiveAmount(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	wei, err := format.ParseEther(input)
	if err != nil || wei.Sign() <= 0 {
		return "", false
	}
	return input, true
}

func failureMessage(err error) string {
	if err == nil {
		return MsgTransactionFailed
	}
	if errors.Is(err, domain.ErrWalletNotConnected) {
		return MsgConnectWallet
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgTransactionFailed
}
