package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/filestat/internal/config"
	"github.com/harrison/filestat/internal/logger"
	"github.com/harrison/filestat/internal/runner"
)

// Version is injected at build time via -ldflags
var Version = "1.0.0"

// ExitError carries a non-zero exit status out of a command. The message
// has already been shown to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to the process exit status.
// Flag, configuration and other command errors are unexpected errors.
func ExitCode(err error) int {
	if err == nil {
		return runner.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return runner.ExitUnexpectedError
}

// NewRootCommand creates and returns the root cobra command for filestat
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filestat",
		Short: "Summarize the files in a folder",
		Long: `filestat validates an input folder, classifies every file directly inside
it as text or binary, counts lines of text files, and writes a JSON summary
and a processing log to the output folder.

Files inside subfolders are never processed.

Configuration is loaded from .filestat/config.yaml if present (or the file
named by $FILESTAT_CONFIG). CLI flags override configuration file settings.

Exit status:
  0  success
  1  validation failed (missing, empty or unreadable input)
  2  unexpected error

Examples:
  filestat                          # Process ./input into ./output
  filestat -i data -o results       # Custom folders
  filestat -v --large-file 10MB     # Per-file detail, flag files over 10MB
  filestat --report                 # Also write report.md and report.html
  filestat history                  # List recorded runs`,
		Args:    cobra.NoArgs,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints errors that have not been reported yet
		SilenceErrors: true,
		RunE:          runProcess,
	}
	cmd.SetVersionTemplate("filestat {{.Version}}\n")

	cmd.Flags().StringP("input", "i", "input", "Input folder whose files are processed")
	cmd.Flags().StringP("output", "o", "output", "Output folder for the summary and log")
	cmd.Flags().BoolP("verbose", "v", false, "Show per-file details")
	cmd.PersistentFlags().String("config", "", "Path to config file (default: .filestat/config.yaml)")
	cmd.Flags().String("log-level", "", "Console log level (trace, debug, info, warn, error)")
	cmd.Flags().String("large-file", "", "Warn about files larger than this size (e.g., 100MB)")
	cmd.Flags().Bool("report", false, "Also write report.md and report.html")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// runProcess implements the root command: a single processing run
func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Only flags given on the command line override the config file
	var inputDir, outputDir, logLevel, largeFile *string
	var verbose, report, history *bool

	if cmd.Flags().Changed("input") {
		v, _ := cmd.Flags().GetString("input")
		inputDir = &v
	}
	if cmd.Flags().Changed("output") {
		v, _ := cmd.Flags().GetString("output")
		outputDir = &v
	}
	if cmd.Flags().Changed("verbose") {
		v, _ := cmd.Flags().GetBool("verbose")
		verbose = &v
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevel = &v
	}
	if cmd.Flags().Changed("large-file") {
		v, _ := cmd.Flags().GetString("large-file")
		largeFile = &v
	}
	if cmd.Flags().Changed("report") {
		v, _ := cmd.Flags().GetBool("report")
		report = &v
	}
	if cmd.Flags().Changed("no-history") {
		v, _ := cmd.Flags().GetBool("no-history")
		enabled := !v
		history = &enabled
	}

	cfg.MergeWithFlags(inputDir, outputDir, verbose, logLevel, largeFile, report, history)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	console := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.ConsoleLevel())
	outcome := runner.Run(cmd.Context(), cfg, console)
	if !outcome.Succeeded() {
		return &ExitError{Code: outcome.ExitCode()}
	}
	return nil
}

// loadConfig loads the file named by --config, $FILESTAT_CONFIG or the default path
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	path := config.ResolvePath(explicit)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}
