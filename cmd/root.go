package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopmonkeyus/go-common/logger"
	csys "github.com/shopmonkeyus/go-common/sys"
	"github.com/shopmonkeyus/product-type-generator/internal/config"
	"github.com/shopmonkeyus/product-type-generator/internal/generator"
	"github.com/shopmonkeyus/product-type-generator/internal/metrics"
	"github.com/shopmonkeyus/product-type-generator/internal/schema"
	"github.com/shopmonkeyus/product-type-generator/internal/sink"
	"github.com/shopmonkeyus/product-type-generator/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var Version string // set in main

func mustFlagBool(cmd *cobra.Command, name string, required bool) bool {
	val, err := cmd.Flags().GetBool(name)
	if required && err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return val
}

func mustFlagString(cmd *cobra.Command, name string, required bool) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	if required && val == "" {
		fmt.Printf("error: required flag --%s missing\n", name)
		os.Exit(1)
	}
	return val
}

func newLogger(cmd *cobra.Command) logger.Logger {
	level := logger.LevelInfo
	if mustFlagBool(cmd, "verbose", false) {
		level = logger.LevelTrace
	} else if mustFlagBool(cmd, "silent", false) {
		level = logger.LevelError
	}
	return logger.NewConsoleLogger(level)
}

func loadConfig(cmd *cobra.Command, log logger.Logger) *config.Config {
	cfg, err := config.Load(cmd.Flags(), mustFlagString(cmd, "config", false))
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
	return cfg
}

// legacyFlags are spellings accepted for compatibility that pflag cannot parse as short flags.
var legacyFlags = map[string]string{
	"-td": "--target",
}

// normalizeArgs rewrites legacy flag spellings, including the -td=value form.
func normalizeArgs(args []string) []string {
	res := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			res = append(res, args[i:]...)
			break
		}
		name, val, hasVal := strings.Cut(arg, "=")
		if replacement, ok := legacyFlags[name]; ok {
			if hasVal {
				arg = replacement + "=" + val
			} else {
				arg = replacement
			}
		}
		res = append(res, arg)
	}
	return res
}

func runGenerate(cmd *cobra.Command, args []string) {
	log := newLogger(cmd)
	defer util.RecoverPanic(log)

	cfg := loadConfig(cmd, log)
	if err := cfg.Check(); err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-csys.CreateShutdownChannel():
			log.Info("shutdown requested")
			cancel()
		}
	}()

	out, err := sink.Open(ctx, log, cfg.Target, sink.Options{SkipUnchanged: cfg.SkipUnchanged, DryRun: cfg.DryRun})
	if err != nil {
		log.Error("error opening target: %s", err)
		os.Exit(1)
	}
	defer out.Close()
	if cfg.DryRun {
		log.Info("dry run enabled, nothing will be written to %s", out)
	}

	var validator *schema.Validator
	if cfg.Validate {
		if validator, err = schema.NewValidator(); err != nil {
			log.Error("error loading schema: %s", err)
			os.Exit(1)
		}
	}

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
	}

	summary, err := generator.Run(ctx, generator.Config{
		Logger:         log,
		TypesFile:      cfg.Types,
		AttributesFile: cfg.Attributes,
		Sink:           out,
		Retailer:       cfg.Retailer,
		Validator:      validator,
		Concurrency:    cfg.Concurrency,
		SharedRename:   cfg.LegacyRename,
		Metrics:        m,
	})
	if err != nil {
		log.Error("An error occurred: %s", err)
		os.Exit(1)
	}
	log.Info("%s", summary)

	if m != nil {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("error writing metrics to %s: %s", cfg.MetricsFile, err)
			os.Exit(1)
		}
		log.Debug("metrics for %.0f files written to %s", metrics.Total(m.Files), cfg.MetricsFile)
	}

	if cfg.Strict && summary.HasFailures() {
		os.Exit(1)
	}
}

func addGenerateFlags(flags *pflag.FlagSet) {
	flags.StringP("types", "t", "", "path to the types csv")
	flags.StringP("attributes", "a", "", "path to the attributes csv")
	flags.StringP("target", "d", "", "output directory or url (also -td)")
	flags.BoolP("retailer", "r", false, "also generate retailer product types with a master sku attribute")
	flags.Bool("validate", false, "validate every document against the product type schema before writing")
	flags.Int("concurrency", config.DefaultConcurrency, "the number of documents written in parallel")
	flags.Bool("strict", false, "exit with code 1 if any product type was skipped or any document was not written")
	flags.Bool("legacy-rename", false, "rename shared attribute definitions in place, the last rename wins")
	flags.String("metrics-file", "", "write run metrics in prometheus text format to this file")
	flags.Bool("skip-unchanged", false, "don't rewrite documents whose content is unchanged")
	flags.Bool("dry-run", false, "only log what would be written")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "product-type-generator",
	Short: "Generate product type JSON definitions from CSV tables",
	Long: util.GenerateHelp("Generate one product type JSON definition per row of the types table.",
		"Attributes", "The attributes table defines each attribute by name, type, labels and enum values.\nRows without a name continue the previous attribute.\n",
		"Types", "The types table has a name and description column followed by one column per attribute.\nA cell of x includes the attribute, any other value includes it under that name.\n",
		"Target", "A directory, file://dir or s3://bucket/prefix?region=us-west-2\n",
	),
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
	Run: runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (toml, yaml or json)")
	rootCmd.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "only log errors")

	addGenerateFlags(rootCmd.Flags())
}
