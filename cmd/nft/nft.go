package nft

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
	MintNFT(context.Context, *orchestrator.MintNFTParams) (*orchestrator.Result, error)
	TransferNFT(context.Context, *orchestrator.TransferNFTParams) (*orchestrator.Result, error)
	ListNFTs(context.Context) ([]client.NFTInfo, error)
}

func NewCmd(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	var o Orchestrator

	cmd := &cobra.Command{
		Use:          "nft",
		Aliases:      []string{"nfts"},
		Short:        "Mint, transfer and list NFTs",
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
	cmd.AddCommand(MintCmd(orch))
	cmd.AddCommand(TransferCmd(orch))
	cmd.AddCommand(ListCmd(orch))

	// Flags
	_ = cfg.Bind(cmd.PersistentFlags(), vip)

	return cmd
}

var mintExample = `
# Mint an NFT owned by the configured DID
rubix-dapp nft mint --metadata ./metadata.json --artifact ./artifact.png`

func MintCmd(o func() Orchestrator) *cobra.Command {
	var params orchestrator.MintNFTParams

	cmd := &cobra.Command{
		Use:          "mint",
		Short:        "Mint an NFT and wait for the request to complete",
		Example:      mintExample,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o().MintNFT(cmd.Context(), &params)
			if err != nil {
				return err
			}

			cmd.Printf("Minted NFT: %s (request %s)\n", res.TrackingKey, res.RequestId)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.MetadataPath, "metadata", "", "path of the nft metadata file")
	cmd.Flags().StringVar(&params.ArtifactPath, "artifact", "", "path of the nft artifact file")

	return cmd
}

var transferExample = `
# Transfer an NFT
rubix-dapp nft transfer --nft QmNFT --owner bafyOwner --receiver bafyReceiver --value 1`

func TransferCmd(o func() Orchestrator) *cobra.Command {
	var params orchestrator.TransferNFTParams

	cmd := &cobra.Command{
		Use:          "transfer",
		Short:        "Transfer an NFT and wait for the request to complete",
		Example:      transferExample,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o().TransferNFT(cmd.Context(), &params)
			if err != nil {
				return err
			}

			cmd.Printf("Transferred NFT %s to %s: %s (request %s)\n", params.NFT, params.Receiver, res.TrackingKey, res.RequestId)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.NFT, "nft", "", "nft id")
	cmd.Flags().StringVar(&params.Owner, "owner", "", "current owner did")
	cmd.Flags().StringVar(&params.Receiver, "receiver", "", "receiver did")
	cmd.Flags().Float64Var(&params.Value, "value", 0, "nft value")

	return cmd
}

func ListCmd(o func() Orchestrator) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List NFTs owned by the configured DID",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			nfts, err := o().ListNFTs(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			formatted := func(row ...any) {
				_, _ = fmt.Fprintf(w, "%v\t%v\t%v\n", row...)
			}

			formatted("NFT", "OWNER", "VALUE")
			for _, nft := range nfts {
				formatted(nft.NFTId, nft.Owner, nft.Value)
			}

			return w.Flush()
		},
	}
}
