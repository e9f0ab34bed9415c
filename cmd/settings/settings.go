package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rubixchain/rubix-dapp/cmd/config"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Settings interface {
	Get(context.Context) (configstore.Document, error)
	Update(context.Context, configstore.Document) (configstore.Document, error)
}

func NewCmd(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	var s Settings

	cmd := &cobra.Command{
		Use:          "settings",
		Aliases:      []string{"setting"},
		Short:        "Read and write the shared dApp configuration",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(cmd, vip); err != nil {
				return err
			}

			s = cfg.NewProvider()
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	settings := func() Settings { return s }

	// Add subcommands
	cmd.AddCommand(GetCmd(settings))
	cmd.AddCommand(SetCmd(settings))

	// Flags
	_ = cfg.Bind(cmd.PersistentFlags(), vip)

	return cmd
}

var getExample = `
# Print the whole configuration
rubix-dapp settings get

# Print a single key
rubix-dapp settings get user_did`

func GetCmd(s func() Settings) *cobra.Command {
	return &cobra.Command{
		Use:          "get [key]",
		Short:        "Print the configuration",
		Example:      getExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := s().Get(cmd.Context())
			if err != nil {
				return err
			}

			var out any = doc
			if len(args) == 1 {
				v, ok := doc[args[0]]
				if !ok {
					return fmt.Errorf("key %s not set", args[0])
				}
				out = v
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}

			cmd.Println(string(data))
			return nil
		},
	}
}

var setExample = `
# Set the node address and the user did
rubix-dapp settings set non_quorum_node_address=http://localhost:20000 user_did=bafyDID

# Values that parse as json are stored as json
rubix-dapp settings set 'contracts_info={"nft": {"contract_hash": "QmHash"}}'`

func SetCmd(s func() Settings) *cobra.Command {
	return &cobra.Command{
		Use:          "set <key=value>...",
		Short:        "Merge keys into the configuration",
		Example:      setExample,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := parse(args)
			if err != nil {
				return err
			}

			if _, err := s().Update(cmd.Context(), partial); err != nil {
				return err
			}

			keys := make([]string, 0, len(partial))
			for k := range partial {
				keys = append(keys, k)
			}
			slices.Sort(keys)

			cmd.Printf("Updated settings: %s\n", strings.Join(keys, ", "))
			return nil
		},
	}
}

func parse(args []string) (configstore.Document, error) {
	partial := configstore.Document{}

	for _, arg := range args {
		k, raw, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid setting %q, expected key=value", arg)
		}

		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		partial[k] = v
	}

	return partial, nil
}
