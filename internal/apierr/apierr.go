// Package apierr renders failures as the envelope every Stride endpoint
// uses: {"error": {"code", "message", "details"}}.
package apierr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeUnauthorized     = "unauthorized"
	CodeBadRequest       = "bad_request"
	CodeInternal         = "internal_error"
)

// Error is a failure with a machine-readable code and optional per-field
// details.
type Error struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Body is the JSON envelope.
type Body struct {
	Error *Error `json:"error"`
}

func Validation(message string, details []string) *Error {
	return &Error{Status: fiber.StatusUnprocessableEntity, Code: CodeValidationFailed, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

// From converts any handler error into an *Error. Plain fiber errors keep
// their status and message; anything else is an opaque 500.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &Error{Status: fiberErr.Code, Code: codeForStatus(fiberErr.Code), Message: fiberErr.Message}
	}

	return &Error{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: "Something went wrong"}
}

// Handler is a fiber.ErrorHandler writing the envelope.
func Handler(c *fiber.Ctx, err error) error {
	e := From(err)
	return c.Status(e.Status).JSON(Body{Error: e})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusUnprocessableEntity:
		return CodeValidationFailed
	case fiber.StatusBadRequest:
		return CodeBadRequest
	default:
		return CodeInternal
	}
}
