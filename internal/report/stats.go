package report

import (
	"fmt"

	"github.com/harrison/filestat/internal/display"
	"github.com/harrison/filestat/internal/models"
)

// Logger receives the statistics block
type Logger interface {
	LogInfo(message string)
}

// LogStatistics writes the SUMMARY STATISTICS block framed by separators.
// The line total is omitted when no text lines were counted.
func LogStatistics(s *models.Summary, log Logger) {
	stats := s.Statistics

	log.LogInfo(display.Separator())
	log.LogInfo("📈 SUMMARY STATISTICS")
	log.LogInfo("")
	log.LogInfo(fmt.Sprintf("  Total Files:   %d", stats.TotalFiles))
	log.LogInfo(fmt.Sprintf("  Text Files:    %d", stats.TextFiles))
	log.LogInfo(fmt.Sprintf("  Binary Files:  %d", stats.BinaryFiles))
	log.LogInfo(fmt.Sprintf("  Total Size:    %.2f KB (%.2f MB)", stats.TotalSizeKB(), stats.TotalSizeMB()))
	if stats.TotalLines > 0 {
		log.LogInfo("  Total Lines:   " + display.FormatCount(stats.TotalLines))
	}
	log.LogInfo(display.Separator())
}
