package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Client errors
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeMissingField    ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange      ErrorCode = "OUT_OF_RANGE"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeAlreadyFinished ErrorCode = "ALREADY_FINISHED"
	CodeConflict        ErrorCode = "CONFLICT"

	// Upstream language-model failures
	CodeGeneration      ErrorCode = "GENERATION_ERROR"
	CodeEvaluationParse ErrorCode = "EVALUATION_PARSE_ERROR"

	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code, so
// errors.Is(err, domain.ErrForbidden) works on any wrapped forbidden error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a detail that is echoed to clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// IsUpstream reports whether the error came from the language-model integration.
func (e *DomainError) IsUpstream() bool {
	return e.Code == CodeGeneration || e.Code == CodeEvaluationParse
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation      = &DomainError{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound        = &DomainError{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized    = &DomainError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden       = &DomainError{Code: CodeForbidden, Message: "forbidden"}
	ErrAlreadyFinished = &DomainError{Code: CodeAlreadyFinished, Message: "chat already finished"}
	ErrConflict        = &DomainError{Code: CodeConflict, Message: "conflict"}
	ErrGeneration      = &DomainError{Code: CodeGeneration, Message: "generation failed"}
	ErrEvaluationParse = &DomainError{Code: CodeEvaluationParse, Message: "evaluation reply could not be parsed"}
)

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewAlreadyFinishedError(chatID string) *DomainError {
	return NewError(CodeAlreadyFinished, "chat is already finished", nil).WithContext("chat_id", chatID)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewGenerationError(message string, cause error) *DomainError {
	return NewError(CodeGeneration, message, cause)
}

func NewEvaluationParseError(message string, cause error) *DomainError {
	return NewError(CodeEvaluationParse, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field errors for a single request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is lets errors.Is(err, ErrValidation) match field-level errors too.
func (v ValidationErrors) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == CodeValidation
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%s has an invalid format", field),
		Value:   value,
	}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Value:   value,
	}
}
