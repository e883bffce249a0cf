// ABOUTME: CLI command for listing saved BMI records.
// ABOUTME: Prints the newest-first history with an optional text trend chart.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/bmi/internal/history"
	"github.com/harperreed/bmi/internal/models"
	"github.com/spf13/cobra"
)

const chartWidth = 40

var (
	historyLimit int
	historyChart bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list", "ls"},
	Short:   "List saved BMI records",
	Long: `List saved BMI records, newest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  BMI  CATEGORY  AGE  GENDER  WEIGHT  HEIGHT

  Use the ID with 'bmi delete'.

EXAMPLES:

  bmi history              # Last 20 records
  bmi history -n 0         # Every record
  bmi history --chart      # Add a BMI trend chart (oldest at the top)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := store.Snapshot()
		out := cmd.OutOrStdout()

		if len(records) == 0 {
			fmt.Fprintln(out, "No records found.")
			return nil
		}

		shown := records
		if historyLimit > 0 && len(shown) > historyLimit {
			shown = shown[:historyLimit]
		}
		printRecords(out, shown)

		if historyChart {
			fmt.Fprintln(out)
			printChart(out, history.Trend(records))
		}

		return nil
	},
}

func printRecords(w io.Writer, records []models.Record) {
	faint := color.New(color.Faint)
	for _, r := range records {
		fmt.Fprintf(w, "%s %s %5.2f %s %3d %-6s %-10s %s\n",
			faint.Sprintf("#%-4d", r.ID),
			faint.Sprint(r.Timestamp.Format("2006-01-02 15:04")),
			r.BMI,
			categoryColor(r.CategoryColor()).Sprint(padRight(r.Category, 17)),
			r.Age,
			r.Gender,
			truncate(r.Weight, 10),
			truncate(r.Height, 10))
	}
}

// printChart draws one horizontal bar per point, scaled to the series axis.
func printChart(w io.Writer, series history.TrendSeries) {
	if len(series.Points) == 0 {
		return
	}
	span := series.AxisMax - series.AxisMin
	faint := color.New(color.Faint)

	fmt.Fprintf(w, "%s\n", faint.Sprintf("BMI trend (%.0f to %.1f)", series.AxisMin, series.AxisMax))
	for _, p := range series.Points {
		n := 1
		if span > 0 {
			n = int((p.BMI - series.AxisMin) / span * chartWidth)
		}
		if n < 1 {
			n = 1
		}
		fmt.Fprintf(w, "%s %s %.2f\n",
			faint.Sprint(padRight(p.Label(), 6)),
			categoryColor(p.Color).Sprint(strings.Repeat("█", n)),
			p.BMI)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max number of records (0 for all)")
	historyCmd.Flags().BoolVar(&historyChart, "chart", false, "show a trend chart")
	rootCmd.AddCommand(historyCmd)
}
