package demo

import (
	"context"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/domain"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

const testFixtures = `
campaigns:
  - owner: "0x1111111111111111111111111111111111111111"
    title: Theirs
    target: "1.0"
    collected: "0.25"
    days_left: 10
  - owner: wallet
    title: Mine
    target: "2.0"
    collected: "1.5"
    days_left: 5
`

func newTestLedger(t *testing.T, wallet *Wallet) *Ledger {
	t.Helper()
	l, err := NewLedger(DefaultAddress, wallet, WithFixtures([]byte(testFixtures)))
	require.NoError(t, err)
	return l
}

func TestDefaultFixturesLoad(t *testing.T) {
	l, err := NewLedger(DefaultAddress, NewWallet("", true))
	require.NoError(t, err)

	campaigns, err := l.GetCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 4)
	assert.Equal(t, "Revolutionary Solar-Powered Water Purifier for Rural Communities", campaigns[0].Title)
	assert.Equal(t, "23700000000000000000", campaigns[0].AmountCollected.String())
	for _, c := range campaigns[1:] {
		assert.Equal(t, DefaultAddress, c.Owner)
	}
}

func TestFixtureDeadlinesAreRelative(t *testing.T) {
	before := time.Now()
	l := newTestLedger(t, NewWallet("", true))
	campaigns, err := l.GetCampaigns(context.Background())
	require.NoError(t, err)

	deadline := time.UnixMilli(campaigns[0].Deadline.Int64())
	assert.WithinDuration(t, before.Add(10*24*time.Hour), deadline, time.Minute)
}

func TestDonateRecordsDonor(t *testing.T) {
	l := newTestLedger(t, NewWallet("", true))
	ctx := context.Background()

	hash, err := l.DonateToCampaign(ctx, 0, big.NewInt(5e16))
	require.NoError(t, err)
	assert.Regexp(t, txHashPattern, hash)

	donators, amounts, err := l.GetDonators(ctx, 0)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{DefaultAddress}, donators); diff != "" {
		t.Fatalf("donators mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, amounts, 1)
	assert.Equal(t, int64(5e16), amounts[0].Int64())

	campaigns, err := l.GetCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, "300000000000000000", campaigns[0].AmountCollected.String())
}

func TestDonateRequiresConnectedWallet(t *testing.T) {
	l := newTestLedger(t, NewWallet("", false))
	_, err := l.DonateToCampaign(context.Background(), 0, big.NewInt(1))
	require.ErrorIs(t, err, domain.ErrWalletNotConnected)
}

func TestWithdrawRules(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, NewWallet("", true))

	_, err := l.WithdrawCampaignFunds(ctx, 0)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = l.WithdrawPartialFunds(ctx, 1, big.NewInt(2e18))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.ErrorIs(t, err, domain.ErrTransactionFailed)

	_, err = l.WithdrawPartialFunds(ctx, 1, big.NewInt(5e17))
	require.NoError(t, err)

	campaigns, err := l.GetCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", campaigns[1].AmountCollected.String())

	_, err = l.WithdrawCampaignFunds(ctx, 1)
	require.NoError(t, err)
	campaigns, err = l.GetCampaigns(ctx)
	require.NoError(t, err)
	assert.Zero(t, campaigns[1].AmountCollected.Sign())
}

func TestCreateCampaignAppends(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, NewWallet("", true))

	_, err := l.CreateCampaign(ctx, DefaultAddress, "New", "desc", big.NewInt(1e18), 1700000000000, "img")
	require.NoError(t, err)

	campaigns, err := l.GetCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	assert.Equal(t, "New", campaigns[2].Title)
	assert.Zero(t, campaigns[2].AmountCollected.Sign())
}

func TestUnknownCampaign(t *testing.T) {
	l := newTestLedger(t, NewWallet("", true))
	_, _, err := l.GetDonators(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLatencyHonoursContext(t *testing.T) {
	l, err := NewLedger(DefaultAddress, NewWallet("", true), WithFixtures([]byte(testFixtures)), WithLatency(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.DonateToCampaign(ctx, 0, big.NewInt(1))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBadFixtures(t *testing.T) {
	_, err := NewLedger(DefaultAddress, nil, WithFixtures([]byte("campaigns:\n  - target: nope\n")))
	require.Error(t, err)
}

func TestWalletConnect(t *testing.T) {
	w := NewWallet("", false)
	_, ok := w.Address()
	assert.False(t, ok)

	addr, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, addr)

	got, ok := w.Address()
	assert.True(t, ok)
	assert.Equal(t, DefaultAddress, got)
}
