// Package aggregator gathers per-file statistics for the direct children of
// an input directory and folds them into a models.Summary.
package aggregator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/filestat/internal/classifier"
	"github.com/harrison/filestat/internal/display"
	"github.com/harrison/filestat/internal/fileutil"
	"github.com/harrison/filestat/internal/models"
)

// DefaultLargeFileThreshold is the size above which a file triggers a warning.
const DefaultLargeFileThreshold int64 = 100 * 1024 * 1024

// Logger receives per-file progress during aggregation.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
}

// Options controls a single aggregation pass.
type Options struct {
	InputDir           string                 // Directory whose direct children are processed
	OutputDir          string                 // Recorded in the summary only
	LargeFileThreshold int64                  // Bytes; zero means DefaultLargeFileThreshold
	Verbose            bool                   // Emit per-file detail lines at debug level
	StartTime          time.Time              // Run start; zero means time.Now()
	Classifier         *classifier.Classifier // nil means the default chain
}

// Aggregate lists the regular files directly under opts.InputDir in name
// order, classifies each one, and returns the completed Summary. Nothing is
// returned until every file has been processed; a failure part way through
// yields an error and no Summary.
func Aggregate(opts Options, log Logger) (*models.Summary, error) {
	if log == nil {
		log = nopLogger{}
	}
	if opts.LargeFileThreshold <= 0 {
		opts.LargeFileThreshold = DefaultLargeFileThreshold
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	cls := opts.Classifier
	if cls == nil {
		cls = classifier.New()
	}

	absOutput, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path %s: %w", opts.OutputDir, err)
	}

	listing, err := fileutil.ListDir(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list input folder: %w", err)
	}

	progress := display.NewProgressIndicator(len(listing.Files))
	records := make([]models.FileRecord, 0, len(listing.Files))

	for _, entry := range listing.Files {
		log.LogInfo(progress.Step(entry.Name))

		record, err := processFile(entry, cls, log)
		if err != nil {
			return nil, err
		}

		if opts.Verbose {
			log.LogDebug(detailLine(record))
		}
		if record.SizeBytes > opts.LargeFileThreshold {
			log.LogWarn(fmt.Sprintf("        ⚠️  Large file: %.2f MB", float64(record.SizeBytes)/(1024*1024)))
		}

		records = append(records, record)
	}

	return &models.Summary{
		ProcessingInfo: models.ProcessingInfo{
			Timestamp:    opts.StartTime.Format(models.TimestampLayout),
			InputFolder:  listing.Dir,
			OutputFolder: absOutput,
		},
		Statistics: models.Fold(records),
		Files:      records,
	}, nil
}

func processFile(entry fileutil.Entry, cls *classifier.Classifier, log Logger) (models.FileRecord, error) {
	info, err := os.Stat(entry.Path)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("failed to stat %s: %w", entry.Name, err)
	}

	result := cls.Classify(entry.Path)
	if result.Err != nil {
		log.LogDebug(fmt.Sprintf("Could not count lines in %s: %v", entry.Name, result.Err))
	}

	return models.NewFileRecord(entry.Name, info.Size(), info.ModTime(), result.LineCount, result.Encoding), nil
}

func detailLine(r models.FileRecord) string {
	if r.IsText() {
		return fmt.Sprintf("        Type: text, Lines: %d, Size: %.2f KB", r.Lines(), float64(r.SizeBytes)/1024)
	}
	return fmt.Sprintf("        Type: binary, Size: %.2f KB", float64(r.SizeBytes)/1024)
}

type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogInfo(string)  {}
func (nopLogger) LogWarn(string)  {}
