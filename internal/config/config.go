package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override flags, e.g. PTGEN_TARGET.
const EnvPrefix = "PTGEN"

// DefaultConcurrency is the number of documents written in parallel.
const DefaultConcurrency = 8

// Config is the resolved configuration of a generator run.
type Config struct {
	Types         string `mapstructure:"types" toml:"types"`
	Attributes    string `mapstructure:"attributes" toml:"attributes"`
	Target        string `mapstructure:"target" toml:"target"`
	Retailer      bool   `mapstructure:"retailer" toml:"retailer"`
	Validate      bool   `mapstructure:"validate" toml:"validate"`
	Concurrency   int    `mapstructure:"concurrency" toml:"concurrency"`
	Strict        bool   `mapstructure:"strict" toml:"strict"`
	LegacyRename  bool   `mapstructure:"legacy-rename" toml:"legacy-rename"`
	MetricsFile   string `mapstructure:"metrics-file" toml:"metrics-file"`
	SkipUnchanged bool   `mapstructure:"skip-unchanged" toml:"skip-unchanged"`
	DryRun        bool   `mapstructure:"dry-run" toml:"dry-run"`
}

// Load resolves the configuration from, in order of precedence, the flags that were set,
// PTGEN_ environment variables, the config file (if not empty) and the flag defaults.
// The config file format follows its extension and defaults to TOML.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("concurrency", DefaultConcurrency)
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "error binding flags")
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if filepath.Ext(configFile) == "" {
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading config file: %s", configFile)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error decoding config")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &cfg, nil
}

// Check returns an error naming every required setting that is missing.
func (c *Config) Check() error {
	var missing []string
	if c.Types == "" {
		missing = append(missing, "types")
	}
	if c.Attributes == "" {
		missing = append(missing, "attributes")
	}
	if c.Target == "" {
		missing = append(missing, "target")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required option: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
