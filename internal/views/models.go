package views

import (
	"time"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
	"crowdfund/internal/payment"
	"crowdfund/internal/withdraw"
)

// CampaignView is a campaign with its derived display values.
type CampaignView struct {
	domain.Campaign
	DaysLeft   int
	Percent    int
	OwnerShort string
	Ended      bool
}

// NewCampaignView derives display values relative to now.
func NewCampaignView(c domain.Campaign, now time.Time) CampaignView {
	return CampaignView{
		Campaign:   c,
		DaysLeft:   format.DaysLeft(c.Deadline, now),
		Percent:    format.BarPercentage(c.Target, c.AmountCollected),
		OwnerShort: format.ShortAddress(c.Owner),
		Ended:      !c.Deadline.After(now),
	}
}

// NewCampaignViews maps a list.
func NewCampaignViews(cs []domain.Campaign, now time.Time) []CampaignView {
	out := make([]CampaignView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCampaignView(c, now))
	}
	return out
}

// ListPage backs the home and profile pages.
type ListPage struct {
	Base
	Campaigns   []CampaignView
	Unavailable bool
}

// DetailPage shows one campaign with its donations.
type DetailPage struct {
	Base
	Campaign  CampaignView
	Donations []domain.Donation
	IsOwner   bool
}

// CreatePage holds the campaign form and its validation errors.
type CreatePage struct {
	Base
	Form   domain.CampaignForm
	Errors map[string]string
	Failed string
}

// PaymentPage renders whichever wizard step is current.
type PaymentPage struct {
	Base
	Campaign CampaignView
	Step     string
	Presets  []payment.Preset
	Amount   string
	Options  payment.Options
	Gas      string
	Total    string
	TxHash   string
	Message  string
	Invalid  bool
}

// NewPaymentPage flattens the wizard state for the template.
func NewPaymentPage(base Base, campaign CampaignView, state payment.State) PaymentPage {
	p := PaymentPage{
		Base:     base,
		Campaign: campaign,
		Step:     state.Step().String(),
		Presets:  payment.DefaultPresets,
		Gas:      format.EstimatedGas,
	}
	switch s := state.(type) {
	case payment.Amount:
		p.Options = s.Options
	case payment.Preview:
		p.Amount, p.Options = s.Amount, s.Options
	case payment.Processing:
		p.Amount, p.Options = s.Amount, s.Options
		p.RefreshIn = 2
	case payment.Success:
		p.Amount, p.Options, p.TxHash = s.Amount, s.Options, s.TxHash
	case payment.Failure:
		p.Amount, p.Options, p.Message = s.Amount, s.Options, s.Message
	}
	if p.Amount != "" {
		if total, err := format.TotalCost(p.Amount); err == nil {
			p.Total = total
		}
	}
	return p
}

// WithdrawPage renders the withdrawal screen.
type WithdrawPage struct {
	Base
	Campaigns  []CampaignView
	SelectedID int
	Selected   *CampaignView
	Amount     string
	Summary    *withdraw.Summary
	Receipt    *withdraw.Receipt
	Failed     string
	Rejected   bool
	Busy       bool
}

// ErrorPage reports a failed request.
type ErrorPage struct {
	Base
	Status  int
	Message string
}
