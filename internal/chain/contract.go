// Package chain binds the crowdfunding contract on an EVM network through
// go-ethereum.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"crowdfund/internal/domain"
)

// campaignTuple mirrors CrowdFunding.Campaign for ABI decoding.
type campaignTuple struct {
	Owner           common.Address
	Title           string
	Description     string
	Target          *big.Int
	Deadline        *big.Int
	AmountCollected *big.Int
	Image           string
	Donators        []common.Address
	Donations       []*big.Int
}

// Signer produces transaction options for the connected account.
type Signer interface {
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Backend is the subset of an RPC client the contract needs.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Contract implements domain.Contract against a deployed contract.
type Contract struct {
	address common.Address
	bound   *bind.BoundContract
	backend Backend
	signer  Signer
}

// Dial connects to rpcURL and binds the contract at address.
func Dial(ctx context.Context, rpcURL, address string, signer Signer) (*Contract, *ethclient.Client, error) {
	if strings.TrimSpace(rpcURL) == "" {
		return nil, nil, errors.New("chain: rpc url is required")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}
	c, err := NewContract(address, client, signer)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return c, client, nil
}

// NewContract binds the contract at address using backend.
func NewContract(address string, backend Backend, signer Signer) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("chain: invalid contract address %q", address)
	}
	parsed, err := abi.JSON(strings.NewReader(crowdfundingABI))
	if err != nil {
		return nil, fmt.Errorf("chain: parse abi: %w", err)
	}
	addr := common.HexToAddress(address)
	return &Contract{
		address: addr,
		bound:   bind.NewBoundContract(addr, parsed, backend, backend, backend),
		backend: backend,
		signer:  signer,
	}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() string {
	return c.address.Hex()
}

func (c *Contract) GetCampaigns(ctx context.Context) ([]domain.OnChainCampaign, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaigns"); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("chain: getCampaigns returned no values")
	}
	tuples := *abi.ConvertType(out[0], new([]campaignTuple)).(*[]campaignTuple)

	campaigns := make([]domain.OnChainCampaign, 0, len(tuples))
	for _, t := range tuples {
		campaigns = append(campaigns, domain.OnChainCampaign{
			Owner:           t.Owner.Hex(),
			Title:           t.Title,
			Description:     t.Description,
			Target:          t.Target,
			Deadline:        t.Deadline,
			AmountCollected: t.AmountCollected,
			Image:           t.Image,
		})
	}
	return campaigns, nil
}

func (c *Contract) GetDonators(ctx context.Context, id int) ([]string, []*big.Int, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, "getDonators", big.NewInt(int64(id))); err != nil {
		return nil, nil, err
	}
	if len(out) < 2 {
		return nil, nil, errors.New("chain: getDonators returned too few values")
	}
	addrs := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
	amounts := *abi.ConvertType(out[1], new([]*big.Int)).(*[]*big.Int)

	donators := make([]string, len(addrs))
	for i, a := range addrs {
		donators[i] = a.Hex()
	}
	return donators, amounts, nil
}

func (c *Contract) CreateCampaign(ctx context.Context, owner, title, description string, target *big.Int, deadline int64, image string) (string, error) {
	if !common.IsHexAddress(owner) {
		return "", fmt.Errorf("chain: invalid owner address %q: %w", owner, domain.ErrInvalidInput)
	}
	return c.transact(ctx, nil, "createCampaign",
		common.HexToAddress(owner), title, description, target, big.NewInt(deadline), image)
}

func (c *Contract) DonateToCampaign(ctx context.Context, id int, value *big.Int) (string, error) {
	return c.transact(ctx, value, "donateToCampaign", big.NewInt(int64(id)))
}

func (c *Contract) WithdrawCampaignFunds(ctx context.Context, id int) (string, error) {
	return c.transact(ctx, nil, "withdrawCampaignFunds", big.NewInt(int64(id)))
}

func (c *Contract) WithdrawPartialFunds(ctx context.Context, id int, amount *big.Int) (string, error) {
	return c.transact(ctx, nil, "withdrawPartialFunds", big.NewInt(int64(id)), amount)
}

// transact signs and submits method, then waits for it to be mined. A
// reverted receipt is reported as ErrTransactionFailed.
func (c *Contract) transact(ctx context.Context, value *big.Int, method string, params ...interface{}) (string, error) {
	if c.signer == nil {
		return "", domain.ErrWalletNotConnected
	}
	opts, err := c.signer.TransactOpts(ctx)
	if err != nil {
		return "", err
	}
	opts.Value = value

	tx, err := c.bound.Transact(opts, method, params...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", method, err)
	}
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return tx.Hash().Hex(), fmt.Errorf("%s: wait mined: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash().Hex(), fmt.Errorf("%s reverted in tx %s: %w", method, tx.Hash().Hex(), domain.ErrTransactionFailed)
	}
	return tx.Hash().Hex(), nil
}
