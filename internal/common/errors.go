package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. ErrUploadRejected never starts the pipeline;
// ErrExtraction/ErrInvocation/ErrParse are fatal for a single-model request
// but recorded (not fatal) per entry in comparison mode.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUploadRejected = errors.New("upload rejected")
	ErrExtraction     = errors.New("text extraction failed")
	ErrInvocation     = errors.New("model invocation failed")
	ErrParse          = errors.New("model reply not parsable")
	ErrNoUsableData   = errors.New("no usable data extracted")
	ErrInternal       = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps pipeline errors onto response codes: upload and input
// problems are 400, an empty extraction is 422, everything else 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUploadRejected), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoUsableData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
