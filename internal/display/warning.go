package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/filestat/internal/logger"
)

// warningIndent prefixes every line below the title
const warningIndent = "    "

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional, may span lines)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// String renders the warning as uncolored text, one item per line
func (w Warning) String() string {
	lines := []string{"⚠️  Warning: " + w.Title}

	if w.Message != "" {
		for _, line := range strings.Split(w.Message, "\n") {
			lines = append(lines, warningIndent+line)
		}
	}

	if len(w.Files) > 0 {
		label := "Affected files:"
		if len(w.Files) == 1 {
			label = "Affected file:"
		}
		lines = append(lines, warningIndent+label)
		for i, file := range w.Files {
			lines = append(lines, fmt.Sprintf("%s  %d. %s", warningIndent, i+1, file))
		}
	}

	if w.Suggestion != "" {
		lines = append(lines, warningIndent+"Suggestion:", warningIndent+w.Suggestion)
	}

	return strings.Join(lines, "\n") + "\n"
}

// Display writes the warning to out, in yellow when out is a terminal
func (w Warning) Display(out io.Writer) {
	fmt.Fprint(out, paint(w.String(), logger.IsTerminal(out)))
}

// paint wraps text in yellow when colored is true
func paint(text string, colored bool) string {
	yellow := color.New(color.FgYellow)
	if colored {
		yellow.EnableColor()
	} else {
		yellow.DisableColor()
	}
	return yellow.Sprint(text)
}

// WarnNoHistory creates the warning shown when no runs have been recorded
func WarnNoHistory(dbPath string) Warning {
	return Warning{
		Title:      "No run history",
		Message:    "No runs have been recorded yet.",
		Files:      []string{dbPath},
		Suggestion: "Run filestat without --no-history to start recording runs",
	}
}
