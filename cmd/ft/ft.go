package ft

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rubixchain/rubix-dapp/cmd/config"
	"github.com/rubixchain/rubix-dapp/internal/orchestrator"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Orchestrator interface {
	CreateFT(context.Context, *orchestrator.CreateFTParams) (*orchestrator.Result, error)
	TransferFT(context.Context, *orchestrator.TransferFTParams) (*orchestrator.Result, error)
	ListFTs(context.Context) ([]client.FTInfo, error)
}

func NewCmd(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	var o Orchestrator

	cmd := &cobra.Command{
		Use:          "ft",
		Aliases:      []string{"fts"},
		Short:        "Create, transfer and list fungible tokens",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(cmd, vip); err != nil {
				return err
			}

			o = cfg.NewOrchestrator(nil)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	orch := func() Orchestrator { return o }

	// Add subcommands
	cmd.AddCommand(CreateCmd(orch))
	cmd.AddCommand(TransferCmd(orch))
	cmd.AddCommand(ListCmd(orch))

	// Flags
	_ = cfg.Bind(cmd.PersistentFlags(), vip)

	return cmd
}

var createExample = `
# Create 100 tokens backed by 1 locked RBT
rubix-dapp ft create --name rubixcoin --supply 100 --rbt-locked 1 --creator-did bafyCreator`

func CreateCmd(o func() Orchestrator) *cobra.Command {
	var params orchestrator.CreateFTParams

	cmd := &cobra.Command{
		Use:          "create",
		Short:        "Create a fungible token and wait for the request to complete",
		Example:      createExample,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o().CreateFT(cmd.Context(), &params)
			if err != nil {
				return err
			}

			cmd.Printf("Created FT %s: %s (request %s)\n", params.Name, res.TrackingKey, res.RequestId)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "token name")
	cmd.Flags().IntVar(&params.Supply, "supply", 0, "number of tokens to create")
	cmd.Flags().IntVar(&params.RBTLocked, "rbt-locked", 0, "number of rbt locked to back the tokens")
	cmd.Flags().StringVar(&params.CreatorDID, "creator-did", "", "creator did")

	return cmd
}

var transferExample = `
# Transfer 10 tokens
rubix-dapp ft transfer --name rubixcoin --amount 10 --creator-did bafyCreator --receiver-did bafyReceiver`

func TransferCmd(o func() Orchestrator) *cobra.Command {
	var params orchestrator.TransferFTParams

	cmd := &cobra.Command{
		Use:          "transfer",
		Short:        "Transfer fungible tokens and wait for the request to complete",
		Example:      transferExample,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o().TransferFT(cmd.Context(), &params)
			if err != nil {
				return err
			}

			cmd.Printf("Transferred %d %s to %s: %s (request %s)\n", params.Amount, params.Name, params.ReceiverDID, res.TrackingKey, res.RequestId)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "token name")
	cmd.Flags().IntVar(&params.Amount, "amount", 0, "number of tokens to transfer")
	cmd.Flags().StringVar(&params.CreatorDID, "creator-did", "", "creator did")
	cmd.Flags().StringVar(&params.ReceiverDID, "receiver-did", "", "receiver did")

	return cmd
}

func ListCmd(o func() Orchestrator) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List fungible token balances of the configured DID",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fts, err := o().ListFTs(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			formatted := func(row ...any) {
				_, _ = fmt.Fprintf(w, "%v\t%v\t%v\n", row...)
			}

			formatted("NAME", "CREATOR", "BALANCE")
			for _, ft := range fts {
				formatted(ft.FTName, ft.CreatorDID, ft.FTCount)
			}

			return w.Flush()
		},
	}
}
