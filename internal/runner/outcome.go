package runner

import (
	"time"

	"github.com/harrison/filestat/internal/models"
)

// Exit codes returned by the filestat binary
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitUnexpectedError = 2
)

// Outcome is the result of a run. Summary is set only when State is
// StateSucceeded; Err is set only for the failed states.
type Outcome struct {
	RunID    string          // Unique ID of the run, also stored in the history
	State    State           // Terminal state reached
	Summary  *models.Summary // Written summary (success only)
	Err      error           // *validator.ValidationError or an unexpected error
	Duration time.Duration   // Wall time from start to the terminal state
}

// ExitCode maps the outcome to the process exit status.
func (o Outcome) ExitCode() int {
	switch o.State {
	case StateSucceeded:
		return ExitSuccess
	case StateFailedValidation:
		return ExitValidationError
	default:
		return ExitUnexpectedError
	}
}

// Succeeded reports whether the run completed and wrote its summary.
func (o Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}
