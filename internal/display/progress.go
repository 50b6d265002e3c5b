package display

import (
	"fmt"
	"path/filepath"
)

// ProgressIndicator numbers the steps of a multi-file pass as [N/Total]
type ProgressIndicator struct {
	totalFiles int
	current    int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(total int) *ProgressIndicator {
	return &ProgressIndicator{
		totalFiles: total,
		current:    0,
	}
}

// Step advances to the next item and returns its progress line: "  [N/Total] name"
func (p *ProgressIndicator) Step(filename string) string {
	p.current++
	return fmt.Sprintf("  [%d/%d] %s", p.current, p.totalFiles, filepath.Base(filename))
}
