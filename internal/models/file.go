package models

import (
	"math"
	"time"
)

// File classification constants
const (
	TypeText   = "text"   // File decoded under one of the candidate encodings
	TypeBinary = "binary" // No candidate encoding decoded the file, or it could not be read
)

// TimestampLayout is the layout used for every timestamp written to the summary
const TimestampLayout = "2006-01-02 15:04:05"

// FileRecord holds the statistics gathered for a single direct-child file.
// Records are created once by the aggregator and never modified afterwards.
type FileRecord struct {
	Name      string  `json:"name"`       // Base name of the file
	SizeBytes int64   `json:"size_bytes"` // Size reported by stat
	SizeKB    Decimal `json:"size_kb"`    // SizeBytes / 1024, rounded to 2 decimals
	Type      string  `json:"type"`       // TypeText or TypeBinary
	LineCount *int    `json:"line_count"` // nil for binary files
	Modified  string  `json:"modified"`   // Local mtime formatted with TimestampLayout
	Encoding  string  `json:"-"`          // Name of the adopted decoder, empty for binary
}

// NewFileRecord builds a FileRecord from raw stat and classification values.
// A non-nil lineCount marks the file as text.
func NewFileRecord(name string, size int64, modTime time.Time, lineCount *int, encoding string) FileRecord {
	fileType := TypeBinary
	if lineCount != nil {
		fileType = TypeText
		n := *lineCount
		lineCount = &n
	} else {
		encoding = ""
	}

	return FileRecord{
		Name:      name,
		SizeBytes: size,
		SizeKB:    Decimal(Round2(float64(size) / 1024)),
		Type:      fileType,
		LineCount: lineCount,
		Modified:  modTime.Local().Format(TimestampLayout),
		Encoding:  encoding,
	}
}

// IsText reports whether the record was classified as text
func (r FileRecord) IsText() bool {
	return r.Type == TypeText
}

// Lines returns the line count, or 0 for binary files
func (r FileRecord) Lines() int {
	if r.LineCount == nil {
		return 0
	}
	return *r.LineCount
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
