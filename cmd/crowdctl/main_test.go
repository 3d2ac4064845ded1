package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/backend"
	"crowdfund/internal/demo"
	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
)

// sharedDemo opens one demo backend reused by every command in a test, so
// writes made by one invocation are visible to the next.
func sharedDemo(t *testing.T) opener {
	t.Helper()
	cfg := &infra.Config{
		Mode:              infra.ModeDemo,
		NetworkName:       "Base Sepolia",
		DemoWalletAddress: demo.DefaultAddress,
		DemoAutoConnect:   true,
		StorageDir:        t.TempDir(),
		StorageBaseURL:    "http://localhost:8080/static",
	}
	be, err := backend.Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	return func(context.Context, zerolog.Logger) (*backend.Backend, error) { return be, nil }
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCampaignsListsFixtures(t *testing.T) {
	out, err := run(t, sharedDemo(t), "campaigns")
	require.NoError(t, err)
	assert.Contains(t, out, "Help Build a School in Kenya")
	assert.Contains(t, out, "Revolutionary Solar-Powered Water Purifier")
	assert.Contains(t, out, "47%")
}

func TestCampaignsMineFiltersByWallet(t *testing.T) {
	out, err := run(t, sharedDemo(t), "campaigns", "--mine")
	require.NoError(t, err)
	assert.Contains(t, out, "Clean Water for All")
	assert.NotContains(t, out, "Solar-Powered")
}

func TestDonateThenListDonations(t *testing.T) {
	open := sharedDemo(t)

	out, err := run(t, open, "donate", "0", "0.25", "--message", "for the pumps")
	require.NoError(t, err)
	assert.Contains(t, out, `donating 0.25 ETH to "Revolutionary`)
	assert.Contains(t, out, "estimated total 0.252 ETH")
	assert.Contains(t, out, "donation confirmed")

	out, err = run(t, open, "donations", "0")
	require.NoError(t, err)
	assert.Contains(t, out, demo.DefaultAddress)
	assert.Contains(t, out, "0.25")
}

func TestDonateRejectsInvalidAmount(t *testing.T) {
	for _, args := range [][]string{
		{"donate", "--", "0", "-1"},
		{"donate", "0", "0"},
		{"donate", "0", "abc"},
	} {
		t.Run(args[len(args)-1], func(t *testing.T) {
			open := sharedDemo(t)
			_, err := run(t, open, args...)
			require.ErrorIs(t, err, domain.ErrInvalidInput)

			out, err := run(t, open, "donations", "0")
			require.NoError(t, err)
			assert.Contains(t, out, "no donations yet")
		})
	}
}

func TestDonateUnknownCampaign(t *testing.T) {
	_, err := run(t, sharedDemo(t), "donate", "99", "0.1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithdrawPartialThenFull(t *testing.T) {
	open := sharedDemo(t)

	out, err := run(t, open, "withdraw", "1", "1.2")
	require.NoError(t, err)
	assert.Contains(t, out, `withdrew 1.2 ETH from "Help Build a School in Kenya" (partial)`)

	out, err = run(t, open, "withdraw", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "withdrew 2.0 ETH")
	assert.Contains(t, out, "(full)")

	_, err = run(t, open, "withdraw", "1")
	require.Error(t, err)
}

func TestWithdrawAmountAboveBalance(t *testing.T) {
	_, err := run(t, sharedDemo(t), "withdraw", "1", "100")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWithdrawNegativeAmountAfterDoubleDash(t *testing.T) {
	_, err := run(t, sharedDemo(t), "withdraw", "--", "1", "-0.5")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWithdrawNotOwner(t *testing.T) {
	_, err := run(t, sharedDemo(t), "withdraw", "0")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRequiresFlags(t *testing.T) {
	_, err := run(t, sharedDemo(t), "create", "--title", "x")
	require.Error(t, err)
}

func TestCreateAddsCampaign(t *testing.T) {
	open := sharedDemo(t)
	out, err := run(t, open, "create",
		"--title", "Library books",
		"--description", "Books for the village library",
		"--target", "2",
		"--deadline", "2099-01-01",
		"--image", "https://example.com/books.jpg")
	require.NoError(t, err)
	assert.Contains(t, out, "campaign created")

	out, err = run(t, open, "campaigns", "--mine")
	require.NoError(t, err)
	assert.Contains(t, out, "Library books")
}
