package models

import "encoding/json"

// Totals aggregates statistics across all FileRecords of a run.
// Totals are only built by folding records; see Fold.
type Totals struct {
	TotalFiles     int   // Number of direct-child files processed
	TextFiles      int   // Files classified as text
	BinaryFiles    int   // Files classified as binary
	TotalSizeBytes int64 // Sum of all file sizes
	TotalLines     int   // Sum of line counts over text files
}

// Add folds a single record into the totals.
func (t *Totals) Add(r FileRecord) {
	t.TotalFiles++
	t.TotalSizeBytes += r.SizeBytes
	if r.IsText() {
		t.TextFiles++
		t.TotalLines += r.Lines()
	} else {
		t.BinaryFiles++
	}
}

// TotalSizeKB returns the total size in KB rounded to 2 decimals
func (t Totals) TotalSizeKB() float64 {
	return Round2(float64(t.TotalSizeBytes) / 1024)
}

// TotalSizeMB returns the total size in MB rounded to 2 decimals
func (t Totals) TotalSizeMB() float64 {
	return Round2(float64(t.TotalSizeBytes) / (1024 * 1024))
}

// Fold derives Totals from an ordered sequence of records.
func Fold(records []FileRecord) Totals {
	var t Totals
	for _, r := range records {
		t.Add(r)
	}
	return t
}

// MarshalJSON writes the statistics block including the derived KB/MB sizes.
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalFiles     int     `json:"total_files"`
		TextFiles      int     `json:"text_files"`
		BinaryFiles    int     `json:"binary_files"`
		TotalSizeBytes int64   `json:"total_size_bytes"`
		TotalSizeKB    Decimal `json:"total_size_kb"`
		TotalSizeMB    Decimal `json:"total_size_mb"`
		TotalLines     int     `json:"total_lines"`
	}{
		TotalFiles:     t.TotalFiles,
		TextFiles:      t.TextFiles,
		BinaryFiles:    t.BinaryFiles,
		TotalSizeBytes: t.TotalSizeBytes,
		TotalSizeKB:    Decimal(t.TotalSizeKB()),
		TotalSizeMB:    Decimal(t.TotalSizeMB()),
		TotalLines:     t.TotalLines,
	})
}

// ProcessingInfo carries run metadata written with the summary
type ProcessingInfo struct {
	Timestamp    string `json:"timestamp"`     // Run start, formatted with TimestampLayout
	InputFolder  string `json:"input_folder"`  // Absolute input path
	OutputFolder string `json:"output_folder"` // Absolute output path
}

// Summary is the single artifact produced by a successful run.
type Summary struct {
	ProcessingInfo ProcessingInfo `json:"processing_info"`
	Statistics     Totals         `json:"statistics"`
	Files          []FileRecord   `json:"files"`
}
