package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/smartwish/print-agent/pkg/printer"
)

// printersCmd represents the printers command
var printersCmd = &cobra.Command{
	Use:   "printers",
	Short: "List printers visible to this machine",
	Long:  `Enumerate printers via IPP/CUPS, falling back to lpstat, and show their state.`,
	RunE:  runPrintersList,
}

func init() {
	rootCmd.AddCommand(printersCmd)
}

func runPrintersList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printers, err := printer.Enumerate(cfg)
	if err != nil {
		return fmt.Errorf("failed to enumerate printers: %w", err)
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(printers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(printers) == 0 {
		fmt.Println("No printers found")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "State", "Location")
	for _, p := range printers {
		marker := ""
		if p.Name == cfg.DefaultPrinter {
			marker = " (default)"
		}
		table.Append(p.Name+marker, p.State, p.Location)
	}
	table.Render()
	fmt.Printf("\nTotal printers: %d\n", len(printers))
	return nil
}
