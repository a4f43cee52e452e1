package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError provides a structured error that can be rendered to API consumers.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy of the AppError carrying a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Message = message
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Permission denied",
		StatusCode: http.StatusForbidden,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}

	// ErrInvalidTransition rejects state-machine steps that are not
	// permitted from the entity's current state.
	ErrInvalidTransition = &AppError{
		Code:       "INVALID_TRANSITION",
		Message:    "Requested transition is not permitted from the current state",
		StatusCode: http.StatusBadRequest,
	}

	// ErrAlreadyTerminal rejects mutations of applications that reached a
	// terminal stage (hired, rejected, withdrawn).
	ErrAlreadyTerminal = &AppError{
		Code:       "ALREADY_TERMINAL",
		Message:    "Application is already in a terminal stage",
		StatusCode: http.StatusConflict,
	}

	// ErrAlreadySubmitted rejects re-submission of finalised feedback.
	ErrAlreadySubmitted = &AppError{
		Code:       "ALREADY_SUBMITTED",
		Message:    "Feedback has already been submitted",
		StatusCode: http.StatusConflict,
	}

	// ErrConcurrentModification signals a lost optimistic-lock race; the
	// client should re-fetch and retry.
	ErrConcurrentModification = &AppError{
		Code:       "CONCURRENT_MODIFICATION",
		Message:    "Record was modified by another request, please retry",
		StatusCode: http.StatusConflict,
	}

	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "Resource already exists",
		StatusCode: http.StatusConflict,
	}

	// ErrPlanLimit reports that an organization plan quota is exhausted.
	ErrPlanLimit = &AppError{
		Code:       "PLAN_LIMIT_REACHED",
		Message:    "Organization plan limit reached",
		StatusCode: http.StatusUnprocessableEntity,
	}

	// ErrUnsupportedDocument reports that an uploaded document cannot be
	// parsed into text.
	ErrUnsupportedDocument = &AppError{
		Code:       "UNSUPPORTED_DOCUMENT",
		Message:    "Uploaded document format is not supported",
		StatusCode: http.StatusBadRequest,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest wraps validation errors with a helpful message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrBadRequest.Code,
		Message:    message,
		StatusCode: ErrBadRequest.StatusCode,
	}
}
