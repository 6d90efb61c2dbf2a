package cli

import (
	"github.com/BartekS5/revetl/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options are the flag values shared by run and inspect. Only flags the user
// actually set override the environment and config file.
type Options struct {
	ConfigFile string
	Input      string
	Output     string
	Driver     string
	Table      string
	Policy     string
	LogLevel   string
	Delimiter  string
	DryRun     bool
	Runs       int64
}

func (o *Options) bindStoreFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "Path to a YAML config file")
	fs.StringVarP(&o.Output, "output", "o", "", "Output store location (DSN or sqlite file path)")
	fs.StringVarP(&o.Driver, "driver", "d", "", "Output store driver: sqlite, sqlserver or postgres")
	fs.StringVar(&o.Table, "table", "", "Output table name")
	fs.StringVar(&o.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

func (o *Options) bindRunFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Input, "input", "i", "", "Path to the sales record file")
	fs.StringVarP(&o.Policy, "policy", "p", "", "Row validity policy: lenient or strict")
	fs.StringVar(&o.Delimiter, "delimiter", "", `Field delimiter (use "\t" for tab)`)
	fs.BoolVar(&o.DryRun, "dry-run", false, "Read and aggregate without writing")
}

// resolve builds the effective configuration: environment, then config
// file, then explicitly set flags.
func (o *Options) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.ConfigFile != "" {
		if err := cfg.MergeFile(o.ConfigFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("input", &cfg.InputPath, o.Input)
	set("output", &cfg.DBDSN, o.Output)
	set("driver", &cfg.DBDriver, o.Driver)
	set("table", &cfg.Table, o.Table)
	set("policy", &cfg.RowPolicy, o.Policy)
	set("log-level", &cfg.LogLevel, o.LogLevel)
	set("delimiter", &cfg.Delimiter, o.Delimiter)
	if flags.Changed("dry-run") {
		cfg.DryRun = o.DryRun
	}

	return cfg, nil
}
