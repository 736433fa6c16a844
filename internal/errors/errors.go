// Package errors defines the error taxonomy surfaced by the dispatcher.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeValidation  = "E100"
	CodeStorage     = "E200"
	CodeExternalAPI = "E300"
	CodeState       = "E400"
	CodeInternal    = "E900"
)

// DefaultUserMessage is shown when nothing more specific is known.
const DefaultUserMessage = "Something went wrong. Please try again later."

// AppError carries both the log message and the text shown to the user.
// Retryable is informational; nothing in the bot retries automatically.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewValidationError reports malformed user input. userMessage is sent as is.
func NewValidationError(msg, userMessage string) *AppError {
	return &AppError{
		Code:        CodeValidation,
		Message:     msg,
		UserMessage: userMessage,
		Severity:    SeverityLow,
	}
}

// NewStorageError wraps a key-value store failure during op.
func NewStorageError(op string, cause error) *AppError {
	return &AppError{
		Code:        CodeStorage,
		Message:     fmt.Sprintf("storage error during %s", op),
		UserMessage: "I could not access my storage right now. Please try again later.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewExternalAPIError wraps a failed call to apiName.
func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Code:        CodeExternalAPI,
		Message:     fmt.Sprintf("external API error: %s", apiName),
		UserMessage: "An external service is unavailable right now. Please try again later.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewStateError reports an operation that is not allowed in the current
// conversation state.
func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        CodeState,
		Message:     msg,
		UserMessage: "That action is not available right now. Send /start to begin again.",
		Severity:    SeverityMedium,
	}
}

// WithUserMessage replaces the text shown to the user.
func (e *AppError) WithUserMessage(msg string) *AppError {
	e.UserMessage = msg
	return e
}

// NewInternalError wraps a recovered panic or another programming error.
func NewInternalError(cause error) *AppError {
	return &AppError{
		Code:        CodeInternal,
		Message:     "internal error",
		UserMessage: DefaultUserMessage,
		Severity:    SeverityCritical,
		cause:       cause,
	}
}
