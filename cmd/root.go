package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rubixchain/rubix-dapp/cmd/config"
	"github.com/rubixchain/rubix-dapp/cmd/ft"
	"github.com/rubixchain/rubix-dapp/cmd/nft"
	"github.com/rubixchain/rubix-dapp/cmd/serve"
	"github.com/rubixchain/rubix-dapp/cmd/settings"
	"github.com/rubixchain/rubix-dapp/cmd/status"
	"github.com/rubixchain/rubix-dapp/cmd/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubix-dapp",
		Short: "Mint and transfer tokens on a Rubix node",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// Add subcommands
	cmd.AddCommand(serve.NewCmd(&config.ServeConfig{}, viper.New()))
	cmd.AddCommand(nft.NewCmd(&config.Config{}, viper.New()))
	cmd.AddCommand(ft.NewCmd(&config.Config{}, viper.New()))
	cmd.AddCommand(status.NewCmd(&config.Config{}, viper.New()))
	cmd.AddCommand(settings.NewCmd(&config.Config{}, viper.New()))
	cmd.AddCommand(version.NewCmd())

	// Set default output
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	return cmd
}

func Execute() {
	// interrupts cancel in flight requests, trackers stop polling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
