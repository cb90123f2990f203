// Package cmd provides the CLI commands for the estimator.
package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"pricing-estimator/adapters/hclconfig"
	"pricing-estimator/core/output"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/config"
	"pricing-estimator/internal/logging"
	"pricing-estimator/internal/metrics"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile  string
	seedPath string
	verbose  bool
	noColor  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "estimator",
	Short: "Estimate monthly prices for accounting services",
	Long: `estimator prices salary, bookkeeping and annual report services for a
business, adjusted for its industry and any configured pricing variables.

Examples:
  estimator estimate --employees 5 --service salary --service bookkeeping
  estimator estimate --industry tech --answer has-investors --format json
  estimator interactive --seed pricing.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pricing-estimator/config.json)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "HCL pricing seed file (default is the built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(industriesCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// env is what every command needs to price a form
type env struct {
	cfg      *config.Config
	snapshot types.Snapshot
	money    *output.CurrencyFormatter
	metrics  *metrics.Metrics
	noColor  bool
}

func newEnv(cfg *config.Config) (*env, error) {
	path := seedPath
	if path == "" {
		path = cfg.Catalog.SeedPath
	}
	snapshot, err := hclconfig.LoadOrDefault(hclconfig.NewLoader(), path)
	if err != nil {
		return nil, err
	}

	code := cfg.Output.Currency
	if code == "" && snapshot.Pricing != nil {
		code = snapshot.Pricing.Currency
	}
	if code == "" {
		code = types.CurrencyNOK
	}
	money, err := output.NewCurrencyFormatter(cfg.Output.Locale, code)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		snapshot: snapshot,
		money:    money,
		noColor:  noColor || cfg.Output.NoColor,
	}
	if cfg.Metrics.Enabled {
		e.metrics = metrics.New(prometheus.NewRegistry())
	}
	return e, nil
}

func (e *env) formatter(format string) (output.Formatter, error) {
	if format == "" {
		format = e.cfg.Output.DefaultFormat
	}
	return output.DefaultRegistry(e.money, e.noColor).Get(output.Format(format))
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "estimator version %s\n", Version)
	},
}
