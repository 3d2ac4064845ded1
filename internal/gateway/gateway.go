// Package gateway translates campaign operations into contract calls and
// decodes the results into display records.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
)

var deadlineLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}

// Gateway reads and writes campaign records through a contract. It makes a
// single attempt per call and returns the contract's failure unchanged.
type Gateway struct {
	contract domain.Contract
	cause    error
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// New returns a gateway backed by contract.
func New(contract domain.Contract, logger zerolog.Logger) *Gateway {
	g := &Gateway{
		contract: contract,
		logger:   logger.With().Str("component", "gateway").Logger(),
		tracer:   otel.Tracer("crowdfund/gateway"),
	}
	if contract == nil {
		g.cause = domain.ErrContractUnavailable
	}
	return g
}

// Unavailable returns a gateway whose every call fails with
// ErrContractUnavailable, wrapping the initialisation failure.
func Unavailable(cause error, logger zerolog.Logger) *Gateway {
	g := New(nil, logger)
	if cause != nil {
		g.cause = fmt.Errorf("%w: %w", domain.ErrContractUnavailable, cause)
	}
	return g
}

// Available reports whether the gateway has a contract to call.
func (g *Gateway) Available() bool {
	return g != nil && g.contract != nil
}

func (g *Gateway) ready() error {
	if g == nil {
		return domain.ErrContractUnavailable
	}
	if g.contract == nil {
		return g.cause
	}
	return nil
}

func (g *Gateway) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := g.tracer.Start(ctx, "gateway."+op, trace.WithAttributes(attrs...))
	g.logger.Debug().Str("op", op).Msg("contract call")
	return ctx, span
}

func (g *Gateway) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Warn().Err(err).Str("op", op).Msg("contract call failed")
	}
	span.End()
}

// ListCampaigns fetches every campaign and tags each with its position.
func (g *Gateway) ListCampaigns(ctx context.Context) (_ []domain.Campaign, err error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	ctx, span := g.start(ctx, "getCampaigns")
	defer func() { g.finish(span, "getCampaigns", err) }()

	raw, err := g.contract.GetCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("get campaigns: %w", err)
	}
	campaigns := make([]domain.Campaign, 0, len(raw))
	for i, c := range raw {
		campaigns = append(campaigns, decodeCampaign(i, c))
	}
	span.SetAttributes(attribute.Int("campaign.count", len(campaigns)))
	return campaigns, nil
}

// ListUserCampaigns returns the campaigns whose owner exactly matches owner.
func (g *Gateway) ListUserCampaigns(ctx context.Context, owner string) ([]domain.Campaign, error) {
	all, err := g.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	var mine []domain.Campaign
	for _, c := range all {
		if c.Owner == owner {
			mine = append(mine, c)
		}
	}
	return mine, nil
}

// Campaign returns the campaign at position id.
func (g *Gateway) Campaign(ctx context.Context, id int) (domain.Campaign, error) {
	all, err := g.ListCampaigns(ctx)
	if err != nil {
		return domain.Campaign{}, err
	}
	if id < 0 || id >= len(all) {
		return domain.Campaign{}, fmt.Errorf("campaign %d: %w", id, domain.ErrNotFound)
	}
	return all[id], nil
}

// ListDonations zips the donor and amount arrays returned by getDonators.
// The contract keeps them the same length; extra entries in either are
// dropped.
func (g *Gateway) ListDonations(ctx context.Context, id int) (_ []domain.Donation, err error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	ctx, span := g.start(ctx, "getDonators", attribute.Int("campaign.id", id))
	defer func() { g.finish(span, "getDonators", err) }()

	donators, amounts, err := g.contract.GetDonators(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get donators %d: %w", id, err)
	}
	n := min(len(donators), len(amounts))
	donations := make([]domain.Donation, 0, n)
	for i := 0; i < n; i++ {
		donations = append(donations, domain.Donation{
			Donator: donators[i],
			Amount:  format.FormatEther(amounts[i]),
		})
	}
	return donations, nil
}

// Donate sends amount (decimal ether) to campaign id and returns the
// transaction hash.
func (g *Gateway) Donate(ctx context.Context, id int, amount string) (_ string, err error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	value, err := format.ParseEther(amount)
	if err != nil {
		return "", err
	}
	ctx, span := g.start(ctx, "donateToCampaign", attribute.Int("campaign.id", id), attribute.String("amount", amount))
	defer func() { g.finish(span, "donateToCampaign", err) }()

	hash, err := g.contract.DonateToCampaign(ctx, id, value)
	if err != nil {
		return "", fmt.Errorf("donate to campaign %d: %w", id, err)
	}
	return hash, nil
}

// CreateCampaign publishes a new campaign owned by owner.
func (g *Gateway) CreateCampaign(ctx context.Context, owner string, form domain.CampaignForm) (_ string, err error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	if strings.TrimSpace(form.Title) == "" {
		return "", fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	}
	target, err := format.ParseEther(form.Target)
	if err != nil {
		return "", err
	}
	if target.Sign() <= 0 {
		return "", fmt.Errorf("target must be positive: %w", domain.ErrInvalidInput)
	}
	deadline, err := ParseDeadline(form.Deadline)
	if err != nil {
		return "", err
	}
	ctx, span := g.start(ctx, "createCampaign", attribute.String("campaign.title", form.Title))
	defer func() { g.finish(span, "createCampaign", err) }()

	hash, err := g.contract.CreateCampaign(ctx, owner, form.Title, form.Description, target, deadline.UnixMilli(), form.Image)
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	return hash, nil
}

// Withdraw moves funds out of campaign id. An empty amount withdraws the
// whole balance.
func (g *Gateway) Withdraw(ctx context.Context, id int, amount string) (_ string, err error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	if amount == "" {
		ctx, span := g.start(ctx, "withdrawCampaignFunds", attribute.Int("campaign.id", id))
		defer func() { g.finish(span, "withdrawCampaignFunds", err) }()

		hash, err := g.contract.WithdrawCampaignFunds(ctx, id)
		if err != nil {
			return "", fmt.Errorf("withdraw campaign %d: %w", id, err)
		}
		return hash, nil
	}

	value, err := format.ParseEther(amount)
	if err != nil {
		return "", err
	}
	ctx, span := g.start(ctx, "withdrawPartialFunds", attribute.Int("campaign.id", id), attribute.String("amount", amount))
	defer func() { g.finish(span, "withdrawPartialFunds", err) }()

	hash, err := g.contract.WithdrawPartialFunds(ctx, id, value)
	if err != nil {
		return "", fmt.Errorf("withdraw %s from campaign %d: %w", amount, id, err)
	}
	return hash, nil
}

// ParseDeadline accepts RFC3339 or a handful of date layouts.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q, use RFC3339 or YYYY-MM-DD: %w", s, domain.ErrInvalidInput)
}

func decodeCampaign(i int, c domain.OnChainCampaign) domain.Campaign {
	var deadline time.Time
	if c.Deadline != nil {
		deadline = time.UnixMilli(c.Deadline.Int64())
	}
	return domain.Campaign{
		ID:              i,
		Owner:           c.Owner,
		Title:           c.Title,
		Description:     c.Description,
		Target:          format.FormatEther(orZero(c.Target)),
		Deadline:        deadline,
		AmountCollected: format.FormatEther(orZero(c.AmountCollected)),
		Image:           c.Image,
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// IsUnavailable reports whether err stems from a missing contract.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrContractUnavailable)
}
