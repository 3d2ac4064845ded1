package views

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"crowdfund/internal/domain"
	"crowdfund/internal/payment"
	"crowdfund/internal/theme"
	"crowdfund/internal/withdraw"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleCampaign() CampaignView {
	return NewCampaignView(domain.Campaign{
		ID:              3,
		Owner:           "0x1234567890123456789012345678901234567890",
		Title:           "Solar <Purifier>",
		Description:     "Clean water",
		Target:          "50.0",
		Deadline:        now.Add(30 * 24 * time.Hour),
		AmountCollected: "23.7",
		Image:           "https://example.com/a.png",
	}, now)
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *Renderer, page string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, page, data))
	return buf.String()
}

func TestCampaignView(t *testing.T) {
	c := sampleCampaign()
	assert.Equal(t, 30, c.DaysLeft)
	assert.Equal(t, 47, c.Percent)
	assert.Equal(t, "0x1234...7890", c.OwnerShort)
	assert.False(t, c.Ended)

	ended := NewCampaignView(domain.Campaign{Deadline: now.Add(-time.Hour)}, now)
	assert.True(t, ended.Ended)
	assert.Equal(t, 0, ended.DaysLeft)
}

func TestHomePage(t *testing.T) {
	r := newRenderer(t)
	base := r.Base(theme.Light, language.English)
	out := render(t, r, PageHome, ListPage{Base: base, Campaigns: []CampaignView{sampleCampaign()}})

	assert.Contains(t, out, `<html lang="en" class="light">`)
	assert.Contains(t, out, "All Campaigns (1)")
	assert.Contains(t, out, "Solar &lt;Purifier&gt;", "titles are escaped")
	assert.Contains(t, out, `href="/campaign-details/3"`)
	assert.Contains(t, out, "Raised of 50.0")
	assert.Contains(t, out, "width: 47%")
	assert.Contains(t, out, "Connect wallet")
}

func TestHomePageIndonesian(t *testing.T) {
	r := newRenderer(t)
	base := r.Base(theme.Dark, language.Indonesian)
	base.Wallet = "0xabc"
	out := render(t, r, PageHome, ListPage{Base: base, Unavailable: true})

	assert.Contains(t, out, `<html lang="id" class="dark">`)
	assert.Contains(t, out, "Semua Kampanye (0)")
	assert.Contains(t, out, "Data kampanye sedang tidak tersedia.")
	assert.Contains(t, out, "Terhubung: 0xabc")
	assert.NotContains(t, out, "Hubungkan dompet")
}

func TestProfileEmpty(t *testing.T) {
	r := newRenderer(t)
	base := r.Base(theme.Dark, language.English)
	base.Wallet = "0xabc"
	out := render(t, r, PageProfile, ListPage{Base: base})
	assert.Contains(t, out, "Your Campaigns (0)")
	assert.Contains(t, out, "You have not created any campaigns yet")
}

func TestDetailPage(t *testing.T) {
	r := newRenderer(t)
	page := DetailPage{
		Base:      r.Base(theme.Dark, language.English),
		Campaign:  sampleCampaign(),
		Donations: []domain.Donation{{Donator: "0xdead", Amount: "0.5"}},
	}
	out := render(t, r, PageDetail, page)
	assert.Contains(t, out, "47% funded")
	assert.Contains(t, out, "0xdead")
	assert.Contains(t, out, `href="/payment/3"`)

	page.Donations = nil
	page.Campaign.Ended = true
	out = render(t, r, PageDetail, page)
	assert.Contains(t, out, "No donators yet. Be the first one!")
	assert.Contains(t, out, "This campaign has ended")
	assert.NotContains(t, out, `href="/payment/3"`)
}

func TestCreatePageErrors(t *testing.T) {
	r := newRenderer(t)
	out := render(t, r, PageCreate, CreatePage{
		Base:   r.Base(theme.Dark, language.English),
		Form:   domain.CampaignForm{Title: "x"},
		Errors: map[string]string{"target": "create.err.target"},
	})
	assert.Contains(t, out, "Enter a positive ETH amount")
	assert.Contains(t, out, `value="x"`)
	assert.Contains(t, out, "disabled")
}

func TestPaymentPageSteps(t *testing.T) {
	r := newRenderer(t)
	base := r.Base(theme.Dark, language.English)
	c := sampleCampaign()

	tests := []struct {
		state payment.State
		want  []string
	}{
		{state: payment.Amount{}, want: []string{`data-step="amount"`, "0.05 ETH · Popular", `action="/payment/3/custom"`}},
		{state: payment.Preview{Amount: "0.05"}, want: []string{`data-step="preview"`, "0.052 ETH", "~0.002 ETH", "Confirm donation"}},
		{state: payment.Processing{Amount: "0.05"}, want: []string{`data-step="processing"`, `http-equiv="refresh"`}},
		{state: payment.Success{Amount: "0.05", TxHash: "0xfeed"}, want: []string{`data-step="success"`, "0xfeed", "Thank you"}},
		{state: payment.Failure{Amount: "0.05", Message: payment.MsgConnectWallet}, want: []string{`data-step="error"`, "Please connect your wallet first", "Try again"}},
	}
	for _, tc := range tests {
		t.Run(tc.state.Step().String(), func(t *testing.T) {
			out := render(t, r, PagePayment, NewPaymentPage(base, c, tc.state))
			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestPaymentPageOnlyProcessingRefreshes(t *testing.T) {
	r := newRenderer(t)
	base := r.Base(theme.Dark, language.English)
	out := render(t, r, PagePayment, NewPaymentPage(base, sampleCampaign(), payment.Success{TxHash: "0x1"}))
	assert.NotContains(t, out, "http-equiv")
}

func TestWithdrawPage(t *testing.T) {
	r := newRenderer(t)
	base := r.Base(theme.Dark, language.English)
	base.Wallet = "0xabc"
	c := sampleCampaign()
	out := render(t, r, PageWithdraw, WithdrawPage{
		Base:       base,
		Campaigns:  []CampaignView{c},
		SelectedID: c.ID,
		Selected:   &c,
		Amount:     "1.5",
		Summary:    &withdraw.Summary{Amount: "1.5", EstimatedGas: "0.002", TotalCost: "1.502"},
		Receipt:    &withdraw.Receipt{Amount: "2", Title: "Old", TxHash: "0xbeef"},
	})
	assert.Contains(t, out, "Available: 23.7 ETH")
	assert.Contains(t, out, "1.502 ETH")
	assert.Contains(t, out, "Withdrew 2 ETH from Old")
	assert.Contains(t, out, `aria-current="true"`)
}

func TestUnknownPage(t *testing.T) {
	r := newRenderer(t)
	err := r.Render(&bytes.Buffer{}, "nope", nil)
	assert.Error(t, err)
}

var keyPattern = regexp.MustCompile(`\.T "([a-z.]+)"`)

// Every literal key referenced by a template must exist in each locale.
func TestLocalesCoverTemplateKeys(t *testing.T) {
	_, all, err := loadCatalog(localesFS)
	require.NoError(t, err)

	entries, err := templatesFS.ReadDir("templates")
	require.NoError(t, err)
	for _, e := range entries {
		data, err := templatesFS.ReadFile("templates/" + e.Name())
		require.NoError(t, err)
		for _, m := range keyPattern.FindAllStringSubmatch(string(data), -1) {
			for tag, msgs := range all {
				_, ok := msgs[m[1]]
				assert.True(t, ok, "%s: key %q missing in %s", e.Name(), m[1], tag)
			}
		}
	}
}

func TestLoadCatalogRequiresEnglish(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/id.yaml": {Data: []byte("locale: id\nmessages:\n  a: b\n")},
	}
	_, _, err := loadCatalog(fsys)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "en"))
}
