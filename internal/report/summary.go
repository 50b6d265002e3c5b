// Package report persists a run's Summary and renders it for people:
// summary.json for machines, an optional Markdown/HTML report, and the
// statistics block written to the run log.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/harrison/filestat/internal/filelock"
	"github.com/harrison/filestat/internal/models"
)

// DefaultSummaryFile is the summary file name used when none is configured
const DefaultSummaryFile = "summary.json"

// MarshalSummary encodes s with two-space indentation. HTML characters and
// non-ASCII file names are written as-is.
func MarshalSummary(s *models.Summary) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("summary is nil")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSummary writes s to outputDir/fileName atomically while holding the
// output folder lock. An empty fileName means DefaultSummaryFile.
func WriteSummary(ctx context.Context, s *models.Summary, outputDir, fileName string) error {
	if fileName == "" {
		fileName = DefaultSummaryFile
	}

	data, err := MarshalSummary(s)
	if err != nil {
		return err
	}

	if err := filelock.WriteAll(ctx, outputDir, filelock.File{Name: fileName, Data: data}); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
