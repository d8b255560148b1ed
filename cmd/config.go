package cmd

import (
	"os"

	"github.com/shopmonkeyus/product-type-generator/internal/util"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: util.GenerateHelp("Print the configuration resolved from flags, PTGEN_ environment variables and the config file.",
		"Example", "PTGEN_TARGET=s3://bucket/types product-type-generator config -t types.csv -a attributes.csv > ptgen.toml\n"),
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		cfg := loadConfig(cmd, log)
		if err := cfg.Encode(os.Stdout); err != nil {
			log.Error("error encoding config: %s", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	addGenerateFlags(configCmd.Flags())
}
