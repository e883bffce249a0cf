// ABOUTME: CLI command for migrating history between storage backends.
// ABOUTME: Copies every record from the active backend into sqlite or badger.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/bmi/internal/config"
	"github.com/harperreed/bmi/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy history to another storage backend",
	Long: `Copy every saved record from the active backend to another one.

Timestamps and values are preserved; the destination assigns new IDs in
save order. The source is left untouched.

IMPORTANT:

  - The destination lives in the same data directory (bmi.db or badger/)
  - A destination that already holds records is refused unless --force
  - Run with --dry-run first to see what would be migrated

After migrating, set "backend" in ~/.config/bmi/config.json (or BMI_BACKEND)
to switch to the new store.

USAGE:

  bmi migrate --to badger --dry-run   # Preview
  bmi migrate --to badger             # Copy sqlite -> badger
  bmi --backend badger migrate --to sqlite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		to := strings.ToLower(migrateTo)
		if to != config.BackendSQLite && to != config.BackendBadger {
			return fmt.Errorf("unknown destination backend: %q (use sqlite or badger)", migrateTo)
		}
		from := cfg.GetBackend()
		if to == from {
			return fmt.Errorf("history already uses the %s backend", from)
		}

		out := cmd.OutOrStdout()
		n := len(store.Snapshot())

		if migrateDryRun {
			fmt.Fprintln(out, color.YellowString("Dry run mode - no changes will be made"))
			fmt.Fprintf(out, "Would copy %d records from %s to %s in %s\n", n, from, to, cfg.GetDataDir())
			return nil
		}

		dst, err := config.OpenBackend(to, cfg.GetDataDir(), logger)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", to, err)
		}

		existing, err := dst.ListAll(cmd.Context())
		if err != nil {
			return errors.Join(fmt.Errorf("failed to read %s storage: %w", to, err), dst.Close())
		}
		if len(existing) > 0 && !migrateForce {
			return errors.Join(fmt.Errorf("%s storage already has %d records (use --force to append)", to, len(existing)), dst.Close())
		}

		summary, err := storage.MigrateData(cmd.Context(), table, dst)
		if err != nil {
			return errors.Join(fmt.Errorf("migration failed: %w", err), dst.Close())
		}
		if err := dst.Close(); err != nil {
			return fmt.Errorf("failed to close %s storage: %w", to, err)
		}

		logger.Info("migrated history", "from", from, "to", to, "records", summary.Records)
		fmt.Fprintln(out, color.GreenString("✓ Copied %d records from %s to %s", summary.Records, from, to))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or badger")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "append even if the destination has records")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
