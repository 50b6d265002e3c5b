package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/filestat/internal/display"
	"github.com/harrison/filestat/internal/filelock"
	"github.com/harrison/filestat/internal/models"
)

// Report file names inside the output folder
const (
	MarkdownFile = "report.md"
	HTMLFile     = "report.html"
)

// RenderMarkdown renders s as a Markdown document with a statistics table
// and one row per file.
func RenderMarkdown(s *models.Summary) []byte {
	var b bytes.Buffer
	info := s.ProcessingInfo
	stats := s.Statistics

	b.WriteString("# File Processing Report\n\n")
	fmt.Fprintf(&b, "- **Generated:** %s\n", info.Timestamp)
	fmt.Fprintf(&b, "- **Input folder:** %s\n", codeSpan(info.InputFolder))
	fmt.Fprintf(&b, "- **Output folder:** %s\n\n", codeSpan(info.OutputFolder))

	b.WriteString("## Statistics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| Total files | %d |\n", stats.TotalFiles)
	fmt.Fprintf(&b, "| Text files | %d |\n", stats.TextFiles)
	fmt.Fprintf(&b, "| Binary files | %d |\n", stats.BinaryFiles)
	fmt.Fprintf(&b, "| Total size | %s (%.2f KB, %.2f MB) |\n",
		display.FormatSize(stats.TotalSizeBytes), stats.TotalSizeKB(), stats.TotalSizeMB())
	fmt.Fprintf(&b, "| Total lines | %s |\n\n", display.FormatCount(stats.TotalLines))

	b.WriteString("## Files\n\n")
	b.WriteString("| # | Name | Type | Lines | Size | Modified |\n")
	b.WriteString("|---:|---|---|---:|---:|---|\n")
	for i, f := range s.Files {
		lines := "-"
		if f.IsText() {
			lines = display.FormatCount(f.Lines())
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, escapeCell(f.Name), f.Type, lines, display.FormatSize(f.SizeBytes), f.Modified)
	}

	return b.Bytes()
}

// RenderHTML converts a Markdown document to a standalone HTML page.
func RenderHTML(markdown []byte) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>File Processing Report</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// WriteReport renders s and writes report.md and report.html to outputDir.
func WriteReport(ctx context.Context, s *models.Summary, outputDir string) error {
	md := RenderMarkdown(s)
	html, err := RenderHTML(md)
	if err != nil {
		return err
	}

	err = filelock.WriteAll(ctx, outputDir,
		filelock.File{Name: MarkdownFile, Data: md},
		filelock.File{Name: HTMLFile, Data: html},
	)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// markdownPunct are the characters that can open inline Markdown or raw
// HTML inside a table cell
const markdownPunct = "\\`*_[]<>!&|~"

// escapeCell backslash-escapes s so it renders as literal text in a table cell
func escapeCell(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case strings.ContainsRune(markdownPunct, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// codeSpan wraps s in a backtick fence longer than any backtick run inside it
func codeSpan(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)

	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}

	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}
