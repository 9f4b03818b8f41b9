package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	logLevel     string
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "print-agent",
	Short: "Local print agent for the SmartWish card queue",
	Long: `print-agent polls the SmartWish cloud queue for pending print jobs,
renders greeting cards into duplex-ready PDFs and dispatches them to a
locally attached printer.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional; environment variables win)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
}

// IsJSONOutput reports whether --output json was requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
