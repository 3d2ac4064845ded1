// Package session keeps per-browser wizard and withdrawal state between
// requests.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crowdfund/internal/domain"
	"crowdfund/internal/payment"
	"crowdfund/internal/withdraw"
)

// Session is the state of one browser.
type Session struct {
	ID string

	reg *Registry

	mu       sync.Mutex
	wizards  map[int]*payment.Wizard
	withdraw *withdraw.Flow
	seen     time.Time
}

// Wizard returns the donation wizard for campaign, creating it on first use.
func (s *Session) Wizard(campaign domain.Campaign) *payment.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[campaign.ID]
	if !ok {
		w = payment.NewWizard(campaign, s.reg.donor, s.reg.wallet, s.reg.logger)
		s.wizards[campaign.ID] = w
	}
	return w
}

// ExistingWizard returns the wizard for a campaign if one was started.
func (s *Session) ExistingWizard(campaignID int) (*payment.Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[campaignID]
	return w, ok
}

// DropWizard forgets the wizard for a campaign.
func (s *Session) DropWizard(campaignID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, campaignID)
}

// Withdraw returns the withdrawal flow, creating it on first use.
func (s *Session) Withdraw() *withdraw.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.withdraw == nil {
		s.withdraw = withdraw.NewFlow(s.reg.withdrawer, s.reg.logger)
	}
	return s.withdraw
}

// Registry maps session ids to sessions. Sessions idle longer than the TTL
// are discarded on the next access.
type Registry struct {
	ttl        time.Duration
	donor      payment.Donor
	wallet     payment.AddressSource
	withdrawer withdraw.Withdrawer
	logger     zerolog.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry. A non-positive ttl keeps sessions
// forever.
func NewRegistry(ttl time.Duration, donor payment.Donor, wallet payment.AddressSource, withdrawer withdraw.Withdrawer, logger zerolog.Logger) *Registry {
	return &Registry{
		ttl:        ttl,
		donor:      donor,
		wallet:     wallet,
		withdrawer: withdrawer,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Get returns the session for id. Unknown, malformed or expired ids get a
// fresh session under a new id; callers should compare Session.ID with the
// id they passed and reissue the cookie when it changed.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if s, ok := r.sessions[id]; ok {
		s.mu.Lock()
		s.seen = now
		s.mu.Unlock()
		return s
	}

	s := &Session{ID: uuid.NewString(), reg: r, wizards: make(map[int]*payment.Wizard), seen: now}
	r.sessions[s.ID] = s
	r.logger.Debug().Str("session", s.ID).Msg("session started")
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep requires r.mu.
func (r *Registry) sweep(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := now.Sub(s.seen)
		s.mu.Unlock()
		if idle > r.ttl {
			delete(r.sessions, id)
			r.logger.Debug().Str("session", id).Dur("idle", idle).Msg("session expired")
		}
	}
}
