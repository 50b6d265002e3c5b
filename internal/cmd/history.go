package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/filestat/internal/display"
	"github.com/harrison/filestat/internal/history"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given
const defaultHistoryLimit = 20

// NewHistoryCommand creates the 'filestat history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs",
		Long: `List previous filestat runs recorded in the history database, newest first.

With a run ID (or a unique prefix of one), show that run in detail including
every processed file.

The database is <output_dir>/history.db unless history.db_path is set in the
configuration or --db is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", defaultHistoryLimit, "Maximum number of runs to list (0 = all)")
	cmd.Flags().String("db", "", "Path to the history database")
	cmd.Flags().StringP("output", "o", "", "Output folder holding history.db (overrides config)")

	return cmd
}

// runHistory executes the history command
func runHistory(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	dbPath, err := historyDBPath(cmd)
	if err != nil {
		return err
	}

	// A missing database means nothing was recorded yet
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		display.WarnNoHistory(dbPath).Display(output)
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	if len(args) == 1 {
		run, err := store.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printRun(output, run)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		display.WarnNoHistory(dbPath).Display(output)
		return nil
	}

	printRunList(output, runs)
	return nil
}

// historyDBPath resolves the database from --db, then --output, then config
func historyDBPath(cmd *cobra.Command) (string, error) {
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		return db, nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output")
	}
	return cfg.HistoryDBPath(), nil
}

// printRunList prints one line per run
func printRunList(w io.Writer, runs []history.Run) {
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintf(w, "\n=== Run History (%d run(s)) ===\n\n", len(runs))
	fmt.Fprintf(w, "%-8s  %-19s  %-17s  %6s  %10s  %10s  %s\n",
		"ID", "STARTED", "OUTCOME", "FILES", "SIZE", "LINES", "DURATION")

	for _, run := range runs {
		fmt.Fprintf(w, "%-8s  %-19s  ", shortID(run.ID), formatTimestamp(run.StartedAt))
		outcomeColor(run.Outcome).Fprintf(w, "%-17s", run.Outcome)
		fmt.Fprintf(w, "  %6d  %10s  %10s  %s\n",
			run.Totals.TotalFiles,
			display.FormatSize(run.Totals.TotalSizeBytes),
			display.FormatCount(run.Totals.TotalLines),
			formatDuration(run.Duration))
	}
	fmt.Fprintln(w)
}

// printRun prints the details of one run and its files
func printRun(w io.Writer, run *history.Run) {
	cyan := color.New(color.FgCyan, color.Bold)
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "\n=== Run %s ===\n\n", run.ID)
	fmt.Fprintf(w, "  Started:  %s ", formatTimestamp(run.StartedAt))
	gray.Fprintf(w, "(%s ago)\n", formatDuration(time.Since(run.StartedAt)))
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(run.Duration))
	fmt.Fprintf(w, "  Input:    %s\n", run.InputFolder)
	fmt.Fprintf(w, "  Output:   %s\n", run.OutputFolder)
	fmt.Fprintf(w, "  Outcome:  ")
	outcomeColor(run.Outcome).Fprintf(w, "%s", run.Outcome)
	fmt.Fprintf(w, " (exit %d)\n", run.ExitCode)

	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "  Error:    ")
		red.Fprintf(w, "%s\n", strings.ReplaceAll(strings.TrimSpace(run.ErrorMessage), "\n", "\n            "))
	}

	if len(run.Files) == 0 {
		fmt.Fprintln(w)
		return
	}

	totals := run.Totals
	fmt.Fprintf(w, "\n  Files: %d (%d text, %d binary), %s, %s line(s)\n\n",
		totals.TotalFiles, totals.TextFiles, totals.BinaryFiles,
		display.FormatSize(totals.TotalSizeBytes), display.FormatCount(totals.TotalLines))

	for i, f := range run.Files {
		lines := "-"
		if f.IsText() {
			lines = display.FormatCount(f.Lines())
		}
		fmt.Fprintf(w, "  %3d. %-40s %-6s %10s %10s  %s\n",
			i+1, f.Name, f.Type, lines, display.FormatSize(f.SizeBytes), f.Modified)
	}
	fmt.Fprintln(w)
}

func outcomeColor(outcome string) *color.Color {
	switch outcome {
	case history.OutcomeSucceeded:
		return color.New(color.FgGreen)
	case history.OutcomeValidationFailed:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// shortID returns the first 8 characters of a run ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTimestamp formats a timestamp for display
func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatDuration formats a run duration for display
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
