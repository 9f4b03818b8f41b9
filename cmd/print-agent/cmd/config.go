package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect agent configuration",
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Print the configuration the agent would run with, after applying defaults, the config file and environment variables.`,
	RunE:  runConfigShow,
}

var configFormat string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().StringVar(&configFormat, "format", "table", "output format: table, json or yaml")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch configFormat {
	case "json":
		output, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	case "yaml":
		output, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(output))
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Setting", "Value")
		table.Append("Cloud server URL", cfg.CloudServerURL)
		table.Append("Default printer", cfg.DefaultPrinter)
		table.Append("Poll interval", cfg.PollInterval.String())
		table.Append("Work directory", cfg.WorkDir)
		table.Append("Metrics port", fmt.Sprintf("%d", cfg.MetricsPort))
		table.Append("Log level", cfg.LogLevel)
		table.Append("Tray print script", cfg.TrayPrintScript)
		table.Append("IPP host", fmt.Sprintf("%s:%d", cfg.IPPHost, cfg.IPPPort))
		table.Append("Disk limit", fmt.Sprintf("%.1f%%", cfg.DiskLimitPercent))
		table.Render()
	}
	return nil
}
