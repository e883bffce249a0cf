// ABOUTME: CLI commands for deleting BMI records.
// ABOUTME: Deletes one record by ID or clears the whole history.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clearYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a saved BMI record",
	Long: `Delete a saved BMI record by its ID.

The ID is shown in the first column of 'bmi history' output. Deleting an ID
that does not exist is not an error.

Undo is available inside 'bmi shell' and through the MCP undo_delete tool.

EXAMPLES:

  bmi delete 12
  bmi rm 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id: %s", args[0])
		}

		removed, err := store.Delete(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		out := cmd.OutOrStdout()
		if removed == nil {
			fmt.Fprintf(out, "No record with id %d.\n", id)
			return nil
		}

		fmt.Fprintln(out, color.YellowString("✗ Deleted record #%d", removed.ID))
		fmt.Fprintf(out, "  %s %.2f %s\n",
			color.New(color.Faint).Sprint(removed.Timestamp.Format("2006-01-02 15:04")),
			removed.BMI, removed.Category)

		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved BMI record",
	Long: `Delete every saved BMI record in one operation.

This cannot be undone. Pass --yes to confirm.

EXAMPLES:

  bmi clear --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return errors.New("refusing to clear history without --yes")
		}

		n := len(store.Snapshot())
		if err := store.DeleteAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Cleared %d records", n))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "confirm deleting every record")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}
