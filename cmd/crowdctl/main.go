// Command crowdctl inspects and operates crowdfunding campaigns from the
// terminal, in demo or live mode.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crowdfund/internal/backend"
	"crowdfund/internal/infra"
)

// opener builds the backend a command runs against.
type opener func(ctx context.Context, logger zerolog.Logger) (*backend.Backend, error)

type cli struct {
	open    opener
	logger  zerolog.Logger
	verbose bool
	timeout time.Duration
}

func main() {
	_ = godotenv.Load()

	root := newRootCmd(func(ctx context.Context, logger zerolog.Logger) (*backend.Backend, error) {
		cfg, err := infra.LoadConfig()
		if err != nil {
			return nil, err
		}
		return backend.Open(ctx, cfg, logger)
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:           "crowdctl",
		Short:         "Operate crowdfunding campaigns",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if c.verbose {
				level = zerolog.DebugLevel
			}
			c.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log gateway calls")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "give up waiting for a transaction after this long")

	root.AddCommand(
		c.campaignsCmd(),
		c.donationsCmd(),
		c.createCmd(),
		c.donateCmd(),
		c.withdrawCmd(),
	)
	return root
}

// backend opens the backend with a deadline derived from --timeout.
func (c *cli) backend(cmd *cobra.Command) (context.Context, *backend.Backend, func(), error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	be, err := c.open(ctx, c.logger)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, be, func() { be.Close(); cancel() }, nil
}

// ensureWallet connects the wallet when it is not connected yet.
func ensureWallet(ctx context.Context, be *backend.Backend) (string, error) {
	if addr, ok := be.Wallet.Address(); ok {
		return addr, nil
	}
	addr, err := be.Wallet.Connect(ctx)
	if err != nil {
		return "", fmt.Errorf("connect wallet: %w", err)
	}
	return addr, nil
}
