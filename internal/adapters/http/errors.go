package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/usecases"
	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // validation_error, infeasible, upstream_unavailable, not_found, ...
	Message   string `json:"message"` // Human-readable message
	Upstream  string `json:"upstream,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// upstreamRetryAfter is the Retry-After hint sent with upstream_rate_limited.
const upstreamRetryAfter = 30

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
	return newError(c, 400, string(domain.KindValidation), msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUnavailable returns a 503 error for features switched off in config.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "service_unavailable", msg)
}

// statusOf maps a pipeline error to its HTTP status and response code.
func statusOf(de *domain.Error) (int, string) {
	switch de.Kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest, string(de.Kind)
	case domain.KindUpstreamRateLimited:
		return fiber.StatusTooManyRequests, string(de.Kind)
	case domain.KindUpstreamUnavailable:
		if de.Timeout {
			return fiber.StatusGatewayTimeout, "upstream_timeout"
		}
		return fiber.StatusBadGateway, string(de.Kind)
	case domain.KindInfeasible:
		return fiber.StatusUnprocessableEntity, string(de.Kind)
	default:
		return fiber.StatusInternalServerError, string(domain.KindInternalInconsistency)
	}
}

// errFromDomain writes the response for any error returned by a service.
func errFromDomain(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "not found")
	case errors.Is(err, usecases.ErrHistoryDisabled):
		return errUnavailable(c, err.Error())
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		logging.FromContext(c.UserContext()).Error("unclassified error", "error", err)
		return errInternal(c, err.Error())
	}

	status, code := statusOf(de)
	if status == fiber.StatusTooManyRequests {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(upstreamRetryAfter))
	}
	msg := de.Message
	if msg == "" {
		msg = de.Error()
	}
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   msg,
		Upstream:  de.Upstream,
		RequestID: reqID,
	})
}
