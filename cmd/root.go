// =============================================================================
// Order Slip Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (slipgen)
//   ├── processCmd   (slipgen process)
//   ├── platformsCmd (slipgen platforms)
//   └── versionCmd   (slipgen version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the main configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/logger"
	"github.com/ginjaninja78/order-slip-generator/internal/schema"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slipgen",
	Short: "Order Slip Generator - Turn marketplace order exports into printable slips",
	Long: `Order Slip Generator reads the order export of an e-commerce marketplace
(Lazada, Zalora, Shopee, TikTok or JDO), groups the lines into orders by
customer and order date, and renders every group of up to ten lines into a
fixed-layout XLSX packing slip with quantity, money and VAT totals.

Example Usage:
  slipgen process --platform jdo --file orders.xlsx
  slipgen process --platform tiktok --file export.csv --zip slips.zip
  slipgen process --platform shopee --file orders.csv --dry-run
  slipgen platforms`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig reads the main configuration. The default config.yaml may be
// absent; a path given explicitly with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	optional := !cmd.Flags().Changed("config")
	cfg, err := config.LoadMainConfig(cfgFile, optional)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the run logger from the configured level and --verbose.
func newLogger(cfg *config.MainConfig) (zerolog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	return logger.New(level), nil
}

// loadRegistry returns the built-in platform schemas plus any found in the
// configured schemas directory.
func loadRegistry(cfg *config.MainConfig) (*schema.Registry, error) {
	reg, err := schema.NewRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.SchemasDir != "" {
		if err := reg.LoadDir(cfg.SchemasDir); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
