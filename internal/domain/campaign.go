package domain

import (
	"math/big"
	"time"
)

// Campaign is the display form of a fundraising record held by the contract.
// Amounts are decimal ether strings.
type Campaign struct {
	ID              int
	Owner           string
	Title           string
	Description     string
	Target          string
	Deadline        time.Time
	AmountCollected string
	Image           string
}

// DeadlineMillis returns the deadline as epoch milliseconds, the encoding the
// contract stores.
func (c Campaign) DeadlineMillis() int64 {
	return c.Deadline.UnixMilli()
}

// CampaignForm carries the creation parameters entered by a campaign owner.
type CampaignForm struct {
	Title       string
	Description string
	Target      string
	Deadline    string
	Image       string
}

// OnChainCampaign is a campaign as returned by getCampaigns, before decoding.
type OnChainCampaign struct {
	Owner           string
	Title           string
	Description     string
	Target          *big.Int
	Deadline        *big.Int
	AmountCollected *big.Int
	Image           string
}
