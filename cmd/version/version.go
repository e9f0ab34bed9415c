package version

import (
	"github.com/rubixchain/rubix-dapp/internal/version"
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("rubix-dapp", version.Full())
		},
	}
}
