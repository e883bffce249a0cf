// ABOUTME: Interactive BMI shell holding the current calculation.
// ABOUTME: Subscribes to the history and re-renders it after every change.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bmi/internal/bmi"
	"github.com/harperreed/bmi/internal/history"
	"github.com/harperreed/bmi/internal/models"
	"github.com/spf13/cobra"
)

const shellListSize = 5

// shellRefreshInterval is how often the shell polls for writes made by
// other bmi processes.
const shellRefreshInterval = 2 * time.Second

const shellHelp = `Commands:
  units metric|imperial                  switch units (clears the current result)
  calc weight=W height=H [inches=I] age=A gender=G
  save                                   save the current result
  delete <id>                            delete a record
  undo                                   restore the last deleted record
  clear                                  delete every record (asks first)
  list [n]                               show saved records
  chart                                  show the trend chart
  export [file]                          write a CSV export
  help                                   show this help
  quit                                   leave the shell`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive BMI session",
	Long: `Start an interactive session.

The shell keeps the latest calculation so it can be saved, supports undo of
the last delete, and redraws the most recent history after every change.
Changes made by other bmi processes sharing the same data are picked up
every few seconds and before list, chart, export and clear.

` + shellHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := newShell(store, cmd.OutOrStdout())
		return sh.run(cmd.Context(), cmd.InOrStdin())
	},
}

// lockedWriter serializes writes from the prompt loop and the history renderer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

type shell struct {
	store *history.Store
	out   io.Writer
	units bmi.UnitSystem

	// current is the held calculation; nil until calc succeeds.
	current *bmi.Result
	input   bmi.Input
}

func newShell(s *history.Store, w io.Writer) *shell {
	return &shell{
		store: s,
		out:   &lockedWriter{w: w},
		units: bmi.Metric,
	}
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := sh.store.Subscribe(ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for list := range sub.C() {
			sh.render(list)
		}
	}()
	go func() {
		defer wg.Done()
		sh.store.Watch(ctx, shellRefreshInterval)
	}()
	defer wg.Wait()
	defer cancel()
	defer sub.Close()

	fmt.Fprintln(sh.out, "BMI shell. Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, color.CyanString("bmi> "))
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := sh.exec(ctx, fields, scanner); err != nil {
			fmt.Fprintln(sh.out, color.RedString("error: %v", err))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (sh *shell) exec(ctx context.Context, fields []string, scanner *bufio.Scanner) error {
	args := fields[1:]

	switch fields[0] {
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "units":
		if len(args) != 1 {
			return errors.New("usage: units metric|imperial")
		}
		units, err := bmi.ParseUnits(args[0])
		if err != nil {
			return err
		}
		sh.units = units
		sh.current = nil
		fmt.Fprintf(sh.out, "Units set to %s.\n", units)
	case "calc":
		return sh.calc(args)
	case "save":
		if sh.current == nil {
			return errors.New("nothing to save, run calc first")
		}
		id, err := sh.store.Save(ctx, *sh.current, sh.input)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, color.GreenString("✓ Saved record #%d", id))
	case "delete", "rm":
		if len(args) != 1 {
			return errors.New("usage: delete <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id: %s", args[0])
		}
		removed, err := sh.store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if removed == nil {
			fmt.Fprintf(sh.out, "No record with id %d.\n", id)
			return nil
		}
		fmt.Fprintln(sh.out, color.YellowString("✗ Deleted record #%d. Type 'undo' to restore it.", removed.ID))
	case "undo":
		restored, err := sh.store.Undo(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, color.GreenString("✓ Restored as record #%d", restored.ID))
	case "clear":
		records, err := sh.records(ctx)
		if err != nil {
			return err
		}
		n := len(records)
		if n == 0 {
			fmt.Fprintln(sh.out, "History is already empty.")
			return nil
		}
		fmt.Fprintf(sh.out, "Delete all %d records? [y/N] ", n)
		if !scanner.Scan() || !isYes(scanner.Text()) {
			fmt.Fprintln(sh.out, "Cancelled.")
			return nil
		}
		if err := sh.store.DeleteAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(sh.out, color.YellowString("✗ Cleared %d records", n))
	case "list", "ls":
		limit := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count: %s", args[0])
			}
			limit = n
		}
		records, err := sh.records(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(sh.out, "No records found.")
			return nil
		}
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
		printRecords(sh.out, records)
	case "chart":
		records, err := sh.records(ctx)
		if err != nil {
			return err
		}
		series := history.Trend(records)
		if len(series.Points) == 0 {
			fmt.Fprintln(sh.out, "No records found.")
			return nil
		}
		printChart(sh.out, series)
	case "export":
		name := history.CSVFileName(time.Now())
		if len(args) == 1 {
			name = args[0]
		}
		records, err := sh.records(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(sh.out, "No history to export.")
			return nil
		}
		data, err := history.ExportCSV(records)
		if err != nil {
			return err
		}
		if err := os.WriteFile(name, data, 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintln(sh.out, color.GreenString("✓ Exported to %s", name))
	default:
		return fmt.Errorf("unknown command: %s (type 'help')", fields[0])
	}
	return nil
}

// records reloads the listing so writes from other processes are included.
func (sh *shell) records(ctx context.Context) ([]models.Record, error) {
	if err := sh.store.Refresh(ctx); err != nil {
		return nil, err
	}
	return sh.store.Snapshot(), nil
}

// calc parses key=value pairs using the shell's unit system.
func (sh *shell) calc(args []string) error {
	raw := bmi.RawInput{Units: string(sh.units)}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		switch strings.ToLower(key) {
		case "weight", "w":
			raw.Weight = value
		case "height", "h":
			raw.Height = value
		case "inches", "in":
			raw.Inches = value
		case "age", "a":
			raw.Age = value
		case "gender", "g":
			raw.Gender = value
		default:
			return fmt.Errorf("unknown field: %s", key)
		}
	}

	res, in, err := bmi.Evaluate(raw)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	sh.current = &res
	sh.input = in
	printResult(sh.out, res, in, true)
	return nil
}

// render redraws the newest records after a history change.
func (sh *shell) render(list []models.Record) {
	var b strings.Builder
	faint := color.New(color.Faint)

	fmt.Fprintf(&b, "\n%s\n", faint.Sprintf("-- history: %d records --", len(list)))
	shown := list
	if len(shown) > shellListSize {
		shown = shown[:shellListSize]
	}
	printRecords(&b, shown)

	_, _ = io.WriteString(sh.out, b.String())
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
