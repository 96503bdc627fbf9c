package questlog

import (
	"errors"
	"fmt"
)

// Validation errors. Their text is shown to the user verbatim.
var (
	ErrSettingsIncomplete = errors.New("Please configure your story settings first")
	ErrNoActiveTasks      = errors.New("No active tasks to generate story from")
)

// ErrNoStory is returned when an operation needs a persisted story and there is none.
var ErrNoStory = errors.New("no story generated yet")

// ErrEmptyStory is returned when a generator responds with no story content.
var ErrEmptyStory = errors.New("response has no story")

// DefaultErrorMessage is shown when a failure carries no better description.
const DefaultErrorMessage = "Failed to generate story"

// GenerationError is a non-success response from a story generator.
type GenerationError struct {
	StatusCode int    // HTTP status code, 0 if unknown
	Message    string // The "error" field of the response body, if any
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d)", DefaultErrorMessage, e.StatusCode)
	}
	return DefaultErrorMessage
}

// ErrorMessage converts any generation failure into the message shown to the user.
// A message from the failure response wins; a GenerationError without one falls
// back to DefaultErrorMessage; any other error uses its own description.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		if genErr.Message != "" {
			return genErr.Message
		}
		return DefaultErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
