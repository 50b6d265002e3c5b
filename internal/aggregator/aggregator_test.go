package aggregator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/filestat/internal/classifier"
	"github.com/harrison/filestat/internal/models"
)

type entry struct {
	level   string
	message string
}

type recordingLogger struct {
	entries []entry
}

func (r *recordingLogger) LogDebug(message string) { r.entries = append(r.entries, entry{"debug", message}) }
func (r *recordingLogger) LogInfo(message string)  { r.entries = append(r.entries, entry{"info", message}) }
func (r *recordingLogger) LogWarn(message string)  { r.entries = append(r.entries, entry{"warn", message}) }

func (r *recordingLogger) messages(level string) []string {
	var out []string
	for _, e := range r.entries {
		if e.level == level {
			out = append(out, e.message)
		}
	}
	return out
}

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}
}

func TestAggregateScenario(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")
	writeFiles(t, input, map[string][]byte{
		"a.txt": []byte("line1\nline2\n"),
		"b.bin": {0x00, 0xFF, 0xFE, 0x81, 0x8D},
	})

	start := time.Date(2024, 3, 1, 12, 30, 45, 0, time.Local)
	log := &recordingLogger{}

	summary, err := Aggregate(Options{InputDir: input, OutputDir: output, StartTime: start}, log)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01 12:30:45", summary.ProcessingInfo.Timestamp)
	assert.Equal(t, input, summary.ProcessingInfo.InputFolder)
	assert.Equal(t, output, summary.ProcessingInfo.OutputFolder)

	require.Len(t, summary.Files, 2)
	a, b := summary.Files[0], summary.Files[1]

	assert.Equal(t, "a.txt", a.Name)
	assert.Equal(t, models.TypeText, a.Type)
	require.NotNil(t, a.LineCount)
	assert.Equal(t, 2, *a.LineCount)
	assert.Equal(t, int64(12), a.SizeBytes)
	assert.Equal(t, models.Decimal(0.01), a.SizeKB)
	assert.Equal(t, "utf-8", a.Encoding)

	assert.Equal(t, "b.bin", b.Name)
	assert.Equal(t, models.TypeBinary, b.Type)
	assert.Nil(t, b.LineCount)
	assert.Equal(t, int64(5), b.SizeBytes)

	stats := summary.Statistics
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 1, stats.TextFiles)
	assert.Equal(t, 1, stats.BinaryFiles)
	assert.Equal(t, int64(17), stats.TotalSizeBytes)
	assert.Equal(t, 2, stats.TotalLines)

	assert.Equal(t, []string{"  [1/2] a.txt", "  [2/2] b.bin"}, log.messages("info"))
	assert.Empty(t, log.messages("debug"), "detail lines are only emitted in verbose mode")
	assert.Empty(t, log.messages("warn"))
}

func TestAggregateOrdersByName(t *testing.T) {
	input := t.TempDir()
	writeFiles(t, input, map[string][]byte{
		"zeta.txt":  []byte("z\n"),
		"Alpha.txt": []byte("A\n"),
		"beta.txt":  []byte("b\n"),
		"10.txt":    []byte("10\n"),
		"2.txt":     []byte("2\n"),
	})

	summary, err := Aggregate(Options{InputDir: input, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	names := make([]string, len(summary.Files))
	for i, f := range summary.Files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"10.txt", "2.txt", "Alpha.txt", "beta.txt", "zeta.txt"}, names)
}

func TestAggregateIgnoresSubfolderContents(t *testing.T) {
	input := t.TempDir()
	writeFiles(t, input, map[string][]byte{
		"top.txt": []byte("one\ntwo\n"),
	})

	before, err := Aggregate(Options{InputDir: input, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	writeFiles(t, input, map[string][]byte{
		"sub/nested.txt":      []byte("a\nb\nc\n"),
		"sub/deeper/data.bin": {0x00, 0x01},
	})

	after, err := Aggregate(Options{InputDir: input, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	assert.Equal(t, before.Statistics, after.Statistics)
	require.Len(t, after.Files, 1)
	assert.Equal(t, "top.txt", after.Files[0].Name)
}

func TestAggregateTotalsInvariants(t *testing.T) {
	input := t.TempDir()
	files := map[string][]byte{}
	for i := 0; i < 7; i++ {
		files[fmt.Sprintf("text%d.txt", i)] = []byte(strings.Repeat("row\n", i))
	}
	files["blob1.bin"] = []byte{0x00, 0x81}
	files["blob2.bin"] = []byte{0x7F, 0x00, 0x90}
	writeFiles(t, input, files)

	summary, err := Aggregate(Options{InputDir: input, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	stats := summary.Statistics
	assert.Equal(t, len(summary.Files), stats.TotalFiles)
	assert.Equal(t, stats.TotalFiles, stats.TextFiles+stats.BinaryFiles)
	assert.Equal(t, 7, stats.TextFiles)
	assert.Equal(t, 2, stats.BinaryFiles)

	var size int64
	lines := 0
	for _, f := range summary.Files {
		size += f.SizeBytes
		lines += f.Lines()
	}
	assert.Equal(t, size, stats.TotalSizeBytes)
	assert.Equal(t, lines, stats.TotalLines)
	assert.Equal(t, 21, stats.TotalLines)
}

func TestAggregateVerboseDetail(t *testing.T) {
	input := t.TempDir()
	writeFiles(t, input, map[string][]byte{
		"a.txt": []byte("x\n"),
		"b.bin": {0x00, 0xFF},
	})

	log := &recordingLogger{}
	_, err := Aggregate(Options{InputDir: input, OutputDir: t.TempDir(), Verbose: true}, log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"        Type: text, Lines: 1, Size: 0.00 KB",
		"        Type: binary, Size: 0.00 KB",
	}, log.messages("debug"))
}

func TestAggregateLargeFileWarning(t *testing.T) {
	input := t.TempDir()
	writeFiles(t, input, map[string][]byte{
		"big.txt":   []byte(strings.Repeat("a", 2048)),
		"small.txt": []byte("a"),
	})

	log := &recordingLogger{}
	summary, err := Aggregate(Options{InputDir: input, OutputDir: t.TempDir(), LargeFileThreshold: 1024}, log)
	require.NoError(t, err)

	assert.Equal(t, []string{"        ⚠️  Large file: 0.00 MB"}, log.messages("warn"))
	// the warning does not change the record
	assert.Equal(t, models.TypeText, summary.Files[0].Type)
}

func TestAggregateCustomClassifier(t *testing.T) {
	input := t.TempDir()
	writeFiles(t, input, map[string][]byte{
		"cafe.txt": []byte("caf\xe9\n"),
	})

	summary, err := Aggregate(Options{
		InputDir:   input,
		OutputDir:  t.TempDir(),
		Classifier: classifier.New(classifier.UTF8),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.TypeBinary, summary.Files[0].Type)
}

func TestAggregateMissingInput(t *testing.T) {
	_, err := Aggregate(Options{InputDir: filepath.Join(t.TempDir(), "missing"), OutputDir: t.TempDir()}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list input folder")
}
