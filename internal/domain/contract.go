package domain

import (
	"context"
	"math/big"
)

// Contract is the call surface of the crowdfunding contract. Write methods
// return the hash of the submitted transaction once it has been accepted.
type Contract interface {
	GetCampaigns(ctx context.Context) ([]OnChainCampaign, error)
	GetDonators(ctx context.Context, id int) ([]string, []*big.Int, error)
	CreateCampaign(ctx context.Context, owner, title, description string, target *big.Int, deadline int64, image string) (string, error)
	DonateToCampaign(ctx context.Context, id int, value *big.Int) (string, error)
	WithdrawCampaignFunds(ctx context.Context, id int) (string, error)
	WithdrawPartialFunds(ctx context.Context, id int, amount *big.Int) (string, error)
}

// Wallet exposes the connected account. Address reports false until Connect
// has succeeded.
type Wallet interface {
	Address() (string, bool)
	Connect(ctx context.Context) (string, error)
}
