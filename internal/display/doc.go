// Package display provides terminal formatting helpers shared by the
// runner and the CLI: progress numbering, banners, number and size
// formatting, and warning boxes.
//
// # Progress
//
//	progress := display.NewProgressIndicator(len(files))
//	for _, f := range files {
//	    log.LogInfo(progress.Step(f))
//	}
//
// # Banners
//
// Banner and Separator produce the 60-column framing used in the run log:
//
//	for _, line := range display.Banner("COMPLETED SUCCESSFULLY") {
//	    log.LogInfo(line)
//	}
//
// # Warnings
//
//	warning := display.Warning{
//	    Title:      "No run history",
//	    Files:      []string{"output/history.db"},
//	    Suggestion: "Run filestat without --no-history",
//	}
//	warning.Display(os.Stderr)
//
// All helpers return strings or accept io.Writer so output can be tested.
package display
