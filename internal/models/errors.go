package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeTransport    = "TRANSPORT_ERROR"
	CodeAuth         = "AUTH_ERROR"
	CodeDuplicateID  = "DUPLICATE_ID"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewTransportError reports an unreachable backend or a non-2xx reply.
// status is 0 when no response was received.
func NewTransportError(operation string, status int, err error) *AppError {
	msg := fmt.Sprintf("%s failed", operation)
	if status != 0 {
		msg = fmt.Sprintf("%s failed with status %d", operation, status)
	}
	return &AppError{
		Code:    CodeTransport,
		Message: msg,
		Status:  status,
		Err:     err,
	}
}

// NewAuthError reports an expired or rejected credential.
func NewAuthError(operation string, status int) *AppError {
	return &AppError{
		Code:    CodeAuth,
		Message: fmt.Sprintf("%s rejected credentials", operation),
		Status:  status,
	}
}

func NewDuplicateIDError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeDuplicateID,
		Message: fmt.Sprintf("%s with ID %v already exists", resource, id),
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsValidation(err error) bool { return HasCode(err, CodeValidation) }
func IsNotFound(err error) bool   { return HasCode(err, CodeNotFound) }
func IsTransport(err error) bool  { return HasCode(err, CodeTransport) }
func IsAuth(err error) bool       { return HasCode(err, CodeAuth) }

// StatusFor maps an AppError code onto an HTTP status.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeDuplicateID:
		return fiber.StatusConflict
	case CodeUnauthorized, CodeAuth:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
