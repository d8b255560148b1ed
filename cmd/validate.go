package cmd

import (
	"os"
	"sort"

	"github.com/shopmonkeyus/product-type-generator/internal/schema"
	"github.com/shopmonkeyus/product-type-generator/internal/util"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate generated product type documents",
	Long:  util.GenerateHelp("Validate every .json file below a directory against the product type schema.", "Example", "product-type-generator validate ./out\n"),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)
		dir := args[0]
		if !util.Exists(dir) {
			log.Error("directory %s does not exist", dir)
			os.Exit(1)
		}
		validator, err := schema.NewValidator()
		if err != nil {
			log.Error("error loading schema: %s", err)
			os.Exit(1)
		}
		count, failures, err := validator.ValidateDir(dir)
		if err != nil {
			log.Error("%s", err)
			os.Exit(1)
		}
		files := make([]string, 0, len(failures))
		for fn := range failures {
			files = append(files, fn)
		}
		sort.Strings(files)
		for _, fn := range files {
			log.Error("%s: %s", fn, failures[fn])
		}
		log.Info("validated %d files, %d invalid", count, len(failures))
		if len(failures) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
