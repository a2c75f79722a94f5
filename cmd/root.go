// Package cmd provides the command-line interface for grammarsync.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources:
//	1. Command-line flags (--config, --log-level) - highest priority
//	2. GRAMMARSYNC_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (GRAMMARSYNC_FETCH_HOST, etc.)
//	4. Configuration files (.grammarsync.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grammarsync",
	Short: "Vendor pinned syntax grammars and their licenses",
	Long: `Grammarsync vendors third-party syntax-grammar definitions and their
licenses into this package, pinned to specific upstream commits.

Each registry entry tracks one upstream repository: the commit it is pinned
to, its license file, and the grammar files vendored from it.

Quick Start:
  grammarsync download            Materialize licenses/ and grammars/ from the pins
  grammarsync update              Advance pins via upstream history inspection
  grammarsync download owner/repo Sync a single source

Both commands accept an optional source name restricting the run to exactly
one registry entry.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .grammarsync.yml, can also use GRAMMARSYNC_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. GRAMMARSYNC_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .grammarsync.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("GRAMMARSYNC_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".grammarsync")
	}

	viper.SetEnvPrefix("GRAMMARSYNC")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config files are fine; every option has a default.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
