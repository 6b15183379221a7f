package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across services and mapped to HTTP statuses at the boundary.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeUnprocessable  = "UNPROCESSABLE"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Fields carries per-field validation messages when present.
	Fields map[string]string
	Err    error
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
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError builds a validation error carrying per-field messages.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "The given data was invalid",
		Fields:  fields,
	}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Code:    CodeAuthentication,
		Message: message,
	}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Code:    CodeAuthorization,
		Message: message,
	}
}

// NewNotFoundError returns the uniform not-found error. The message is the
// same regardless of entity kind so the API does not leak which lookup failed.
func NewNotFoundError() *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: "Not found",
	}
}

func NewUnprocessableError(message string) *AppError {
	return &AppError{
		Code:    CodeUnprocessable,
		Message: message,
	}
}

func NewInvalidTokenError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
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

// StatusFor maps an error code to its HTTP status. AuthorizationError maps to
// 401 rather than 403; the API reports both gates as a login problem.
func StatusFor(code string) int {
	switch code {
	case CodeValidation, CodeUnprocessable, CodeInvalidToken:
		return fiber.StatusUnprocessableEntity
	case CodeAuthentication, CodeAuthorization:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard {message, success:false} envelope.
// Internal error details are never serialized.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var fields map[string]string

	if appErr, ok := err.(*AppError); ok {
		status = StatusFor(appErr.Code)
		message = appErr.Message
		fields = appErr.Fields
	}

	body := fiber.Map{
		"message": message,
		"success": false,
	}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	return c.Status(status).JSON(body)
}
