package validator

import (
	"fmt"
	"strings"
)

// Kind identifies which precondition a ValidationError violated.
type Kind int

const (
	// KindNotFound means the input location does not exist.
	KindNotFound Kind = iota
	// KindNotDirectory means the input location exists but is not a directory.
	KindNotDirectory
	// KindUnreadable means the directory cannot be opened or listed.
	KindUnreadable
	// KindNoFiles means the directory has fewer direct-child files than required.
	KindNoFiles
	// KindUnreadableFiles means at least one direct-child file cannot be read.
	KindUnreadableFiles
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNotDirectory:
		return "not_directory"
	case KindUnreadable:
		return "unreadable"
	case KindNoFiles:
		return "no_files"
	case KindUnreadableFiles:
		return "unreadable_files"
	default:
		return "unknown"
	}
}

// ValidationError reports the first precondition that failed for an
// input location. Message is meant to be shown to the user as-is.
type ValidationError struct {
	Kind       Kind   // Violated precondition
	Path       string // Absolute input path
	Message    string // Human-readable, possibly multi-line explanation
	Suggestion string // Action to take (optional)
	Cause      error  // Underlying error(s) (optional)
}

func newError(kind Kind, path, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Detail returns the message followed by the suggestion, if any.
func (e *ValidationError) Detail() string {
	if e.Suggestion == "" {
		return e.Message
	}
	var sb strings.Builder
	sb.WriteString(e.Message)
	sb.WriteString("\n\nSuggestion: ")
	sb.WriteString(e.Suggestion)
	return sb.String()
}
