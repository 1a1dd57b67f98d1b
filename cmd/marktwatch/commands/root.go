// Package commands implements the CLI commands for marktwatch.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "marktwatch",
	Short: "Track football club market values over time",
	Long: `Marktwatch builds a CSV time series of club market values from
transfermarkt.com, sampling the 1st and 15th of every month in a range.

Examples:
  # Scrape a year of Bundesliga market values
  marktwatch scrape --date-from 2024-10-01 --date-to 2025-10-01

  # Re-run against a saved page snapshot, no network
  marktwatch scrape --use-local-file --local-file page.html

  # Preview which dates a range would sample
  marktwatch dates --date-from 2024-10-01 --date-to 2025-01-01`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.marktwatch.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".marktwatch")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MARKTWATCH")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
