// Package runner drives one filestat run: validate the input folder,
// aggregate statistics, write the outputs, and report the outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/filestat/internal/aggregator"
	"github.com/harrison/filestat/internal/config"
	"github.com/harrison/filestat/internal/display"
	"github.com/harrison/filestat/internal/fileutil"
	"github.com/harrison/filestat/internal/history"
	"github.com/harrison/filestat/internal/logger"
	"github.com/harrison/filestat/internal/models"
	"github.com/harrison/filestat/internal/report"
	"github.com/harrison/filestat/internal/validator"
)

// Runner executes runs for one configuration.
type Runner struct {
	cfg     *config.Config
	console logger.Logger
	now     func() time.Time
	newID   func() string
}

// New creates a Runner. console receives the human-readable progress; the
// run log is opened by Run itself. A nil console discards output.
func New(cfg *config.Config, console logger.Logger) *Runner {
	if console == nil {
		console = logger.NewNoOpLogger()
	}
	return &Runner{
		cfg:     cfg,
		console: console,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run is shorthand for New(cfg, console).Run(ctx).
func Run(ctx context.Context, cfg *config.Config, console logger.Logger) Outcome {
	return New(cfg, console).Run(ctx)
}

// run holds the per-invocation state shared by the stages.
type run struct {
	*Runner
	ctx       context.Context
	log       *logger.MultiLogger
	fileLog   *logger.FileLogger
	machine   machine
	start     time.Time
	id        string
	absInput  string
	absOutput string
}

// Run performs a complete run and never panics; any failure is reported
// through the returned Outcome.
func (r *Runner) Run(ctx context.Context) (out Outcome) {
	rn := &run{
		Runner: r,
		ctx:    ctx,
		log:    logger.NewMultiLogger(r.console),
		start:  r.now(),
		id:     r.newID(),
	}

	// The run log is closed only after a recovered panic has been logged
	defer rn.closeLog()
	defer func() {
		if p := recover(); p != nil {
			out = rn.failUnexpected(fmt.Errorf("panic: %v", p))
		}
	}()

	return rn.execute()
}

func (rn *run) execute() Outcome {
	var err error
	if rn.absInput, err = filepath.Abs(rn.cfg.InputDir); err != nil {
		return rn.failSetup(fmt.Errorf("failed to resolve input path: %w", err))
	}
	if rn.absOutput, err = filepath.Abs(rn.cfg.OutputDir); err != nil {
		return rn.failSetup(fmt.Errorf("failed to resolve output path: %w", err))
	}

	rn.fileLog, err = logger.NewFileLogger(rn.cfg.LogPath())
	if err != nil {
		return rn.failSetup(fmt.Errorf("failed to set up logging: %w", err))
	}
	rn.log.Add(rn.fileLog)

	rn.header()

	// Validating
	if err := rn.machine.to(StateValidating); err != nil {
		return rn.failUnexpected(err)
	}
	listing, err := rn.validate()
	if err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return rn.failValidation(verr)
		}
		return rn.failUnexpected(err)
	}

	// Processing
	if err := rn.machine.to(StateProcessing); err != nil {
		return rn.failUnexpected(err)
	}
	summary, err := rn.process(len(listing.Files))
	if err != nil {
		return rn.failUnexpected(err)
	}

	// Writing
	if err := rn.machine.to(StateWriting); err != nil {
		return rn.failUnexpected(err)
	}
	if err := rn.write(summary); err != nil {
		return rn.failUnexpected(err)
	}
	report.LogStatistics(summary, rn.log)

	if err := rn.machine.to(StateSucceeded); err != nil {
		return rn.failUnexpected(err)
	}
	out := rn.outcome(summary, nil)
	rn.record(out)

	rn.banner("COMPLETED SUCCESSFULLY")
	rn.log.LogInfo(fmt.Sprintf("Duration: %.2f seconds", out.Duration.Seconds()))
	rn.log.LogInfo(fmt.Sprintf("Output:   %s", rn.absOutput))
	rn.banner("")

	return out
}

func (rn *run) closeLog() {
	if rn.fileLog != nil {
		rn.fileLog.Close()
	}
}

func (rn *run) header() {
	rn.banner("FILE PROCESSING SYSTEM")
	rn.log.LogInfo("Started: " + rn.start.Format(models.TimestampLayout))
	rn.log.LogDebug("Run ID: " + rn.id)
	rn.log.LogInfo(display.Separator())
	rn.log.LogInfo("📂 Input:  " + rn.absInput)
	rn.log.LogInfo("📂 Output: " + rn.absOutput)
	rn.log.LogInfo(display.Separator())
}

func (rn *run) validate() (*fileutil.Listing, error) {
	rn.log.LogInfo("🔍 Validating inputs...")
	rn.log.LogInfo("")

	listing, err := validator.Validate(rn.absInput, checkObserver{log: rn.log})
	if err != nil {
		return nil, err
	}

	rn.log.LogInfo("")
	rn.log.LogInfo(fmt.Sprintf("✅ Validation passed - %d file(s) ready", len(listing.Files)))
	rn.log.LogInfo(display.Separator())
	return listing, nil
}

func (rn *run) process(expected int) (*models.Summary, error) {
	threshold, err := rn.cfg.LargeFileThresholdBytes()
	if err != nil {
		return nil, err
	}

	rn.log.LogInfo("📊 Processing files...")
	rn.log.LogInfo("")

	summary, err := aggregator.Aggregate(aggregator.Options{
		InputDir:           rn.absInput,
		OutputDir:          rn.absOutput,
		LargeFileThreshold: threshold,
		Verbose:            rn.cfg.Verbose,
		StartTime:          rn.start,
	}, rn.log)
	if err != nil {
		return nil, err
	}
	if len(summary.Files) != expected {
		rn.log.LogDebug(fmt.Sprintf("Input folder changed during the run: %d file(s) validated, %d processed",
			expected, len(summary.Files)))
	}

	rn.log.LogInfo("")
	rn.log.LogInfo(fmt.Sprintf("✅ Processed %d file(s) successfully", len(summary.Files)))
	rn.log.LogInfo(display.Separator())
	return summary, nil
}

func (rn *run) write(summary *models.Summary) error {
	if err := report.WriteSummary(rn.ctx, summary, rn.absOutput, rn.cfg.SummaryFile); err != nil {
		return err
	}
	if rn.cfg.Report.Enabled {
		if err := report.WriteReport(rn.ctx, summary, rn.absOutput); err != nil {
			return err
		}
	}

	rn.log.LogInfo("📝 Output files created:")
	rn.log.LogInfo("  • Summary: " + rn.cfg.SummaryFile)
	rn.log.LogInfo("  • Log:     " + rn.cfg.LogFile)
	if rn.cfg.Report.Enabled {
		rn.log.LogInfo(fmt.Sprintf("  • Report:  %s, %s", report.MarkdownFile, report.HTMLFile))
	}
	return nil
}

func (rn *run) outcome(summary *models.Summary, err error) Outcome {
	return Outcome{
		RunID:    rn.id,
		State:    rn.machine.state,
		Summary:  summary,
		Err:      err,
		Duration: rn.now().Sub(rn.start),
	}
}

func (rn *run) failValidation(verr *validator.ValidationError) Outcome {
	if err := rn.machine.to(StateFailedValidation); err != nil {
		return rn.failUnexpected(err)
	}
	out := rn.outcome(nil, verr)
	rn.record(out)

	rn.log.LogError("")
	rn.banner("VALIDATION FAILED")
	rn.log.LogError("❌ " + verr.Detail())
	rn.banner("")
	rn.log.LogError("Please fix the issues and try again.")
	return out
}

func (rn *run) failUnexpected(err error) Outcome {
	if !rn.machine.state.Terminal() {
		_ = rn.machine.to(StateFailedUnexpected)
	}
	out := rn.outcome(nil, err)
	out.State = StateFailedUnexpected
	rn.record(out)

	rn.log.LogError("")
	rn.banner("UNEXPECTED ERROR")
	rn.log.LogError(fmt.Sprintf("❌ %s: %v", errorType(err), err))
	rn.banner("")
	rn.log.LogDebug("Error chain:")
	for e := err; e != nil; e = errors.Unwrap(e) {
		rn.log.LogDebug(fmt.Sprintf("  %T: %v", e, e))
	}
	return out
}

// failSetup reports failures that happen before the run log exists. Only
// the console sees them and nothing is recorded.
func (rn *run) failSetup(err error) Outcome {
	_ = rn.machine.to(StateFailedUnexpected)
	rn.log.LogError("FATAL ERROR: " + err.Error())
	return rn.outcome(nil, err)
}

func (rn *run) banner(text string) {
	for _, line := range display.Banner(text) {
		rn.log.LogInfo(line)
	}
}

// record stores the outcome in the run history. History problems are
// logged and never change the outcome.
func (rn *run) record(out Outcome) {
	if !rn.cfg.History.Enabled {
		return
	}

	store, err := history.NewStore(rn.cfg.HistoryDBPath())
	if err != nil {
		rn.log.LogWarn("⚠️  Could not open run history: " + err.Error())
		return
	}
	defer store.Close()

	entry := &history.Run{
		ID:           out.RunID,
		StartedAt:    rn.start,
		Duration:     out.Duration,
		InputFolder:  rn.absInput,
		OutputFolder: rn.absOutput,
		Outcome:      historyOutcome(out.State),
		ExitCode:     out.ExitCode(),
	}
	if out.Summary != nil {
		entry.Totals = out.Summary.Statistics
		entry.Files = out.Summary.Files
	}
	if out.Err != nil {
		entry.ErrorMessage = out.Err.Error()
	}

	if err := store.Record(rn.ctx, entry); err != nil {
		rn.log.LogWarn("⚠️  Could not record run history: " + err.Error())
		return
	}
	rn.log.LogDebug("Run recorded in " + store.Path())
}

func historyOutcome(s State) string {
	switch s {
	case StateSucceeded:
		return history.OutcomeSucceeded
	case StateFailedValidation:
		return history.OutcomeValidationFailed
	default:
		return history.OutcomeUnexpectedError
	}
}

// errorType names the error type shown to the user, e.g. "*fs.PathError".
// fmt.Errorf wrappers are looked through; plain errors are reported as "error".
func errorType(err error) string {
	for {
		name := fmt.Sprintf("%T", err)
		next := errors.Unwrap(err)
		if name == "*fmt.wrapError" && next != nil {
			err = next
			continue
		}
		if name == "*errors.errorString" || name == "*fmt.wrapError" {
			return "error"
		}
		return name
	}
}

// checkObserver turns validator progress into log lines.
type checkObserver struct {
	log logger.Logger
}

func (o checkObserver) CheckPassed(description string) {
	o.log.LogInfo("  ✓ " + description)
}

func (o checkObserver) Note(message string) {
	o.log.LogDebug(message)
}
