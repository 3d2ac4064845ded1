package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
	"crowdfund/internal/payment"
	"crowdfund/internal/withdraw"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("campaign id %q: %w", s, domain.ErrInvalidInput)
	}
	return id, nil
}

func (c *cli) campaignsCmd() *cobra.Command {
	var owner string
	var mine bool
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "List campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, be, done, err := c.backend(cmd)
			if err != nil {
				return err
			}
			defer done()

			if mine {
				if owner, err = ensureWallet(ctx, be); err != nil {
					return err
				}
			}
			var campaigns []domain.Campaign
			if owner != "" {
				campaigns, err = be.Gateway.ListUserCampaigns(ctx, owner)
			} else {
				campaigns, err = be.Gateway.ListCampaigns(ctx)
			}
			if err != nil {
				return err
			}

			now := time.Now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tRAISED\tTARGET\tFUNDED\tDAYS LEFT\tOWNER")
			for _, cp := range campaigns {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t%d\t%s\n",
					cp.ID, cp.Title, cp.AmountCollected, cp.Target,
					format.BarPercentage(cp.Target, cp.AmountCollected),
					format.DaysLeft(cp.Deadline, now), format.ShortAddress(cp.Owner))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "only campaigns owned by this address (exact match)")
	cmd.Flags().BoolVar(&mine, "mine", false, "only campaigns owned by the connected wallet")
	return cmd
}

func (c *cli) donationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "donations <id>",
		Short: "List the donations to a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, be, done, err := c.backend(cmd)
			if err != nil {
				return err
			}
			defer done()

			if _, err := be.Gateway.Campaign(ctx, id); err != nil {
				return err
			}
			donations, err := be.Gateway.ListDonations(ctx, id)
			if err != nil {
				return err
			}
			if len(donations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no donations yet")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tDONATOR\tAMOUNT")
			for i, d := range donations {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, d.Donator, d.Amount)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) createCmd() *cobra.Command {
	var form domain.CampaignForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign owned by the connected wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, be, done, err := c.backend(cmd)
			if err != nil {
				return err
			}
			defer done()

			owner, err := ensureWallet(ctx, be)
			if err != nil {
				return err
			}
			hash, err := be.Gateway.CreateCampaign(ctx, owner, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "campaign created\ntx: %s\n", hash)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Title, "title", "", "campaign title")
	f.StringVar(&form.Description, "description", "", "campaign story")
	f.StringVar(&form.Target, "target", "", "goal in ETH")
	f.StringVar(&form.Deadline, "deadline", "", "end date (YYYY-MM-DD or RFC3339)")
	f.StringVar(&form.Image, "image", "", "image URL")
	for _, name := range []string{"title", "description", "target", "deadline", "image"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) donateCmd() *cobra.Command {
	var opts payment.Options
	cmd := &cobra.Command{
		Use:   "donate <id> <amount>",
		Short: "Donate ETH to a campaign",
		Long: `Donate ETH to a campaign.

Put -- before an amount that starts with a dash, e.g.
crowdctl donate -- 0 -1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, be, done, err := c.backend(cmd)
			if err != nil {
				return err
			}
			defer done()

			if _, err := ensureWallet(ctx, be); err != nil {
				return err
			}
			campaign, err := be.Gateway.Campaign(ctx, id)
			if err != nil {
				return err
			}

			wz := payment.NewWizard(campaign, be.Gateway, be.Wallet, c.logger)
			if err := wz.SetOptions(opts); err != nil {
				return err
			}
			ok, err := wz.SubmitCustom(args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("amount %q must be a number greater than zero: %w", args[1], domain.ErrInvalidInput)
			}
			preview := wz.State().(payment.Preview)
			total, _ := format.TotalCost(preview.Amount)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "donating %s ETH to %q (estimated total %s ETH)\n", preview.Amount, campaign.Title, total)

			if err := wz.Confirm(ctx); err != nil {
				return err
			}
			state, err := wz.Wait(ctx)
			if err != nil {
				return err
			}
			switch s := state.(type) {
			case payment.Success:
				fmt.Fprintf(out, "donation confirmed\ntx: %s\n", s.TxHash)
				return nil
			case payment.Failure:
				return errors.New(s.Message)
			default:
				return fmt.Errorf("donation ended in unexpected state %s", state.Step())
			}
		},
	}
	cmd.Flags().StringVar(&opts.Message, "message", "", "message for the campaign owner")
	cmd.Flags().BoolVar(&opts.Anonymous, "anonymous", false, "donate anonymously")
	return cmd
}

func (c *cli) withdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <id> [amount]",
		Short: "Withdraw funds from a campaign you own",
		Long: `Withdraw funds from a campaign you own. Omit amount to take the full
balance. Put -- before an amount that starts with a dash, e.g.
crowdctl withdraw -- 1 -0.5.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, be, done, err := c.backend(cmd)
			if err != nil {
				return err
			}
			defer done()

			owner, err := ensureWallet(ctx, be)
			if err != nil {
				return err
			}
			mine, err := be.Gateway.ListUserCampaigns(ctx, owner)
			if err != nil {
				return err
			}
			flow := withdraw.NewFlow(be.Gateway, c.logger)
			flow.Load(mine)
			if err := flow.Select(id); err != nil {
				return fmt.Errorf("campaign %d is not yours or has no funds: %w", id, err)
			}
			if len(args) == 2 {
				if !flow.SetAmount(args[1]) {
					sel, _ := flow.Selected()
					return fmt.Errorf("amount %q must be between 0 and %s: %w", args[1], sel.AmountCollected, domain.ErrInvalidInput)
				}
			} else if err := flow.Max(); err != nil {
				return err
			}

			receipt, err := flow.Submit(ctx)
			if err != nil {
				return err
			}
			kind := "partial"
			if receipt.Full {
				kind = "full"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "withdrew %s ETH from %q (%s)\ntx: %s\n", receipt.Amount, receipt.Title, kind, receipt.TxHash)
			return nil
		},
	}
}
