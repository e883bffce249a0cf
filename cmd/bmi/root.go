// ABOUTME: Root Cobra command for bmi CLI.
// ABOUTME: Handles config, logger and history store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bmi/internal/config"
	"github.com/harperreed/bmi/internal/history"
	"github.com/harperreed/bmi/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *log.Logger
	table  storage.Table
	store  *history.Store

	flagBackend  string
	flagDataDir  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "bmi",
	Short: "BMI calculator with a local history log",
	Long: `bmi calculates Body Mass Index from metric or imperial measurements,
classifies it into one of eight bands, and keeps a history of saved results.

QUICK START:

  $ bmi calc --weight 70 --height 175 --age 30 --gender male
  $ bmi calc --units imperial --weight 154 --height 5 --inches 9 --age 30 --gender female --save
  $ bmi history                 # Saved results, newest first
  $ bmi history --chart         # With a trend chart
  $ bmi shell                   # Interactive session with live history

CATEGORIES:

  < 16.0     Severe Thinness       25.0-29.9  Overweight
  16.0-16.9  Moderate Thinness     30.0-34.9  Obese Class I
  17.0-18.4  Mild Thinness         35.0-39.9  Obese Class II
  18.5-24.9  Normal                >= 40.0    Obese Class III

MCP INTEGRATION:

  Run 'bmi mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

DATA STORAGE:

  History is stored in SQLite at ~/.local/share/bmi/bmi.db by default.
  Set "backend": "badger" in ~/.config/bmi/config.json (or BMI_BACKEND)
  to use the embedded Badger key-value store instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return openStore(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// openStore loads config, applies flag overrides and opens the history store.
func openStore(cmd *cobra.Command) error {
	// A failed previous run skips PostRun; release anything it left open.
	if err := closeStore(); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	level, err := cfg.GetLogLevel()
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "bmi",
	})

	table, err = cfg.OpenStorage(logger)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	store, err = history.New(cmd.Context(), table, history.WithLogger(logger))
	if err != nil {
		_ = table.Close()
		table = nil
		return fmt.Errorf("failed to load history: %w", err)
	}

	logger.Debug("history ready", "backend", cfg.GetBackend(), "path", cfg.StoragePath(), "records", len(store.Snapshot()))
	return nil
}

func closeStore() error {
	if store != nil {
		store.Close()
		store = nil
	}
	if table != nil {
		err := table.Close()
		table = nil
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/bmi)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}
