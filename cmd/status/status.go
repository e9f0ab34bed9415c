package status

import (
	"github.com/rubixchain/rubix-dapp/cmd/config"
	"github.com/rubixchain/rubix-dapp/internal/tracker"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusExample = `
# Print the current status of a request
rubix-dapp status nft-QmHash-mint

# Wait until the request completes
rubix-dapp status nft-QmHash-mint --wait --tracker-interval 2s`

func NewCmd(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	var (
		source tracker.Source
		tr     *tracker.Tracker
	)

	cmd := StatusCmd(func() tracker.Source { return source }, func() *tracker.Tracker { return tr })
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.Load(cmd, vip); err != nil {
			return err
		}

		source = cfg.Node.Client("", "", nil)
		tr = cfg.NewTracker(nil)
		return nil
	}

	_ = cfg.Bind(cmd.Flags(), vip)

	return cmd
}

func StatusCmd(source func() tracker.Source, t func() *tracker.Tracker) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:          "status <key>",
		Short:        "Query the status of a request by its tracking key",
		Example:      statusExample,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if wait {
				if err := t().Track(cmd.Context(), key); err != nil {
					return err
				}

				cmd.Printf("%s: %s\n", key, operation.Success)
				return nil
			}

			res, err := source().RequestStatus(cmd.Context(), key)
			if err != nil {
				return err
			}

			if !res.Status.Set {
				return operation.Errorf(operation.CodeUnknownStatus, "unknown status received: %s", res.Status.String())
			}

			cmd.Printf("%s: %s\n", key, res.Status.Status)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait until the request completes")

	return cmd
}
