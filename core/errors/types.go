// ABOUTME: Custom error types for the download pipeline
// ABOUTME: Separates input, extraction, post-condition and internal failures for the HTTP boundary

package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents rejected user input. No I/O has been performed when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExtractionError represents a failure reported by the external extractor
type ExtractionError struct {
	// Stage is the extractor step that failed ("probe" or "download")
	Stage   string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed during %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed during %s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying extractor error
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// MissingFileError is returned when the extractor reported success but no usable file exists.
// It points at our own pipeline rather than at the source platform.
type MissingFileError struct {
	Path   string
	Reason string
}

// Error implements the error interface
func (e *MissingFileError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("file was not created: %s (%s)", e.Path, e.Reason)
	}
	return fmt.Sprintf("file was not created: %s", e.Path)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExtraction checks if an error is an ExtractionError
func IsExtraction(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// IsMissingFile checks if an error is a MissingFileError
func IsMissingFile(err error) bool {
	var missingErr *MissingFileError
	return errors.As(err, &missingErr)
}
