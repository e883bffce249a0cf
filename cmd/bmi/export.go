// ABOUTME: CLI commands for exporting and importing BMI history.
// ABOUTME: Supports CSV, JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bmi/internal/history"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export BMI history",
	Long: `Export BMI history in various formats.

FORMATS:

  csv        Spreadsheet export (Date,BMI,Category,Age,Gender,Weight,Height)
  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown table (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout. CSV always goes to a file
                 and defaults to bmi_history_YYYY_MM_DD.csv.

EXAMPLES:

  bmi export csv                     # bmi_history_2025_04_02.csv
  bmi export json -o backup.json     # Save a backup
  bmi export markdown                # Print a Markdown table`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		records := store.Snapshot()
		output := exportOutput

		var data []byte
		var err error

		switch format {
		case "csv":
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history to export.")
				return nil
			}
			data, err = history.ExportCSV(records)
			if output == "" {
				output = history.CSVFileName(time.Now())
			}
		case "json":
			data, err = history.ExportJSON(records)
		case "yaml":
			data, err = history.ExportYAML(records)
		case "markdown":
			data = []byte(history.ExportMarkdown(records))
		default:
			return fmt.Errorf("unknown format: %s (use csv, json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if output != "" {
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(out, color.GreenString("✓ Exported %d records to %s", len(records), output))
		} else {
			fmt.Fprintln(out, string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import BMI history from JSON",
	Long: `Import BMI history from a JSON backup file.

Records keep their original timestamps and values and receive new IDs.

EXAMPLES:

  bmi import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		n, err := history.ImportJSON(cmd.Context(), store, data)
		if err != nil {
			return fmt.Errorf("import failed after %d records: %w", n, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported %d records from %s", n, filename))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
