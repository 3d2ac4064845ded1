package domain

// Donation represents a recorded transfer from a donor to a campaign.
type Donation struct {
	Donator string
	Amount  string
}
