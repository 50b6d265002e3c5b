package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNewFileRecord(t *testing.T) {
	mod := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		size      int64
		lines     *int
		encoding  string
		wantType  string
		wantKB    Decimal
		wantLines int
		wantEnc   string
	}{
		{name: "text file", size: 12, lines: intPtr(2), encoding: "utf-8", wantType: TypeText, wantKB: 0.01, wantLines: 2, wantEnc: "utf-8"},
		{name: "binary file drops encoding", size: 2048, lines: nil, encoding: "utf-8", wantType: TypeBinary, wantKB: 2, wantLines: 0},
		{name: "empty text file", size: 0, lines: intPtr(0), encoding: "utf-8", wantType: TypeText, wantKB: 0, wantLines: 0, wantEnc: "utf-8"},
		{name: "rounding", size: 1536 + 10, lines: intPtr(1), encoding: "latin-1", wantType: TypeText, wantKB: 1.51, wantLines: 1, wantEnc: "latin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFileRecord("f", tt.size, mod, tt.lines, tt.encoding)
			assert.Equal(t, tt.wantType, r.Type)
			assert.Equal(t, tt.wantKB, r.SizeKB)
			assert.Equal(t, tt.wantLines, r.Lines())
			assert.Equal(t, tt.wantEnc, r.Encoding)
			assert.Equal(t, "2024-03-01 12:30:00", r.Modified)
			if tt.lines == nil {
				assert.Nil(t, r.LineCount)
			}
		})
	}
}

func TestNewFileRecordCopiesLineCount(t *testing.T) {
	n := 5
	r := NewFileRecord("f", 1, time.Now(), &n, "utf-8")
	n = 9
	assert.Equal(t, 5, r.Lines())
}

func TestFoldInvariants(t *testing.T) {
	now := time.Now()
	records := []FileRecord{
		NewFileRecord("a.txt", 12, now, intPtr(2), "utf-8"),
		NewFileRecord("b.bin", 300, now, nil, ""),
		NewFileRecord("c.csv", 1000, now, intPtr(40), "windows-1252"),
		NewFileRecord("d.dat", 7, now, nil, ""),
	}

	totals := Fold(records)

	assert.Equal(t, 4, totals.TotalFiles)
	assert.Equal(t, totals.TotalFiles, totals.TextFiles+totals.BinaryFiles)
	assert.Equal(t, 2, totals.TextFiles)
	assert.Equal(t, int64(1319), totals.TotalSizeBytes)
	assert.Equal(t, 42, totals.TotalLines)
}

func TestFoldEmpty(t *testing.T) {
	totals := Fold(nil)
	assert.Equal(t, Totals{}, totals)
	assert.Equal(t, 0.0, totals.TotalSizeMB())
}

func TestSummaryJSONShape(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	files := []FileRecord{
		NewFileRecord("a.txt", 12, now, intPtr(2), "utf-8"),
		NewFileRecord("b.bin", 4, now, nil, ""),
	}
	summary := Summary{
		ProcessingInfo: ProcessingInfo{Timestamp: "2024-01-02 03:04:05", InputFolder: "/in", OutputFolder: "/out"},
		Statistics:     Fold(files),
		Files:          files,
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	// sizes keep a fractional part even when whole
	assert.Contains(t, string(data), `"total_size_mb":0.0`)
	assert.Contains(t, string(data), `"size_bytes":4,"size_kb":0.0,`)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	info := decoded["processing_info"].(map[string]interface{})
	assert.Equal(t, "/in", info["input_folder"])
	assert.Equal(t, "/out", info["output_folder"])

	stats := decoded["statistics"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_files"])
	assert.Equal(t, float64(1), stats["text_files"])
	assert.Equal(t, float64(1), stats["binary_files"])
	assert.Equal(t, float64(16), stats["total_size_bytes"])
	assert.Equal(t, 0.02, stats["total_size_kb"])
	assert.Equal(t, float64(0), stats["total_size_mb"])
	assert.Equal(t, float64(2), stats["total_lines"])

	list := decoded["files"].([]interface{})
	require.Len(t, list, 2)
	text := list[0].(map[string]interface{})
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, float64(2), text["line_count"])
	assert.NotContains(t, text, "Encoding")

	bin := list[1].(map[string]interface{})
	assert.Equal(t, "binary", bin["type"])
	v, ok := bin["line_count"]
	assert.True(t, ok, "line_count must be present for binary files")
	assert.Nil(t, v)
}

func TestDecimalMarshalJSON(t *testing.T) {
	tests := []struct {
		in   Decimal
		want string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{0.01, "0.01"},
		{1.5, "1.5"},
		{1048576, "1048576.0"},
		{-3, "-3.0"},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))
	}

	_, err := json.Marshal(Decimal(math.NaN()))
	assert.Error(t, err)
}

func TestDecimalRoundTrip(t *testing.T) {
	var r FileRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","size_kb":2.0}`), &r))
	assert.Equal(t, Decimal(2), r.SizeKB)
}
