package helpers

import (
	"fmt"

	"stream-viewer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type ViewerError struct {
	Message string
	Cause   error
}

func (e *ViewerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ViewerError) Unwrap() error {
	return e.Cause
}

// Distinct error types matching the failure taxonomy: transport failures on
// the REST boundary, invalid local input, malformed stream frames, bad config.
type ConfigurationError struct{ ViewerError }
type NetworkError struct{ ViewerError }
type ValidationError struct{ ViewerError }
type StreamError struct{ ViewerError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewNetworkError(message string, cause error) *NetworkError {
	return &NetworkError{ViewerError{Message: message, Cause: cause}}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{ViewerError{Message: message}}
}

func NewStreamError(message string, cause error) *StreamError {
	return &StreamError{ViewerError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler centralizes non-fatal error logging. None of the failures it
// sees are retried: the user retries the triggering action instead.
type ErrorHandler struct {
	Logger     *logger.Logger
	ErrorCount int
}

func NewErrorHandler(level string) *ErrorHandler {
	return &ErrorHandler{
		Logger: logger.NewLogger(level, "ErrorHandler"),
	}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) Handle(err error, context string) {
	if err != nil {
		e.ErrorCount++
		e.Logger.Error("Error in %s: %v", context, err)
	}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.ErrorCount = 0
}
