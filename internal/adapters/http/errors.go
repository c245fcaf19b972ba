package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/milelog/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, internal_error, bad_gateway, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errBadGateway returns a 502 error.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "bad_gateway", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "service_unavailable", msg)
}

// errGatewayTimeout returns a 504 error.
func errGatewayTimeout(c *fiber.Ctx, msg string) error {
	return newError(c, 504, "gateway_timeout", msg)
}

// serviceError maps a use-case error onto an HTTP response.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate), errors.Is(err, domain.ErrInvalidTheme):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrMissingCredential):
		LoggerFromCtx(c.UserContext()).Error("map provider access token is not configured")
		return errInternal(c, "map provider is not configured")
	case errors.Is(err, domain.ErrProviderRejected):
		return errBadGateway(c, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		return errUnavailable(c, "map provider unavailable, please try again later")
	case errors.Is(err, context.DeadlineExceeded):
		return errGatewayTimeout(c, "map provider timed out")
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "error", err)
		return errInternal(c, "internal error")
	}
}
