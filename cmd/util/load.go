package util

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Load reads the config file named by the --config flag, or name.yaml
// from the working or home directory, and enables env overrides. A
// missing default file is not an error.
func Load(cmd *cobra.Command, vip *viper.Viper, name string) error {
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		vip.SetConfigFile(file)
	} else {
		vip.SetConfigName(name)
		vip.AddConfigPath(".")
		vip.AddConfigPath("$HOME")
	}

	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

func Decode(vip *viper.Viper, cfg any) error {
	hooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	return vip.Unmarshal(cfg, viper.DecodeHook(hooks))
}
