package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// Error codes returned in APIError.Code.
const (
	codeBadRequest          = "bad_request"
	codeInvalidPage         = "invalid_page"
	codeUnknownTheme        = "unknown_theme"
	codeEncodeFailed        = "encode_failed"
	codeRateLimited         = "rate_limited"
	codeTrackerLoading      = "tracker_loading"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeDependencyDown      = "dependency_unavailable"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, codeBadRequest, msg)
}

func errInvalidPage(c *fiber.Ctx, err error) error {
	return newError(c, fiber.StatusBadRequest, codeInvalidPage, err.Error())
}

// errUnknownTheme is a 400 for a theme query parameter and a 404 for a
// theme path segment.
func errUnknownTheme(c *fiber.Ctx, status int, name string) error {
	return newError(c, status, codeUnknownTheme, "unknown theme: "+name)
}

func errEncode(c *fiber.Ctx, what string) error {
	return newError(c, fiber.StatusInternalServerError, codeEncodeFailed, "failed to encode "+what)
}

// trackerCode classifies a snapshot without a position for readiness
// reporting. It returns "" once a position is known.
func trackerCode(snap *domain.Snapshot) string {
	switch {
	case snap.Position != nil:
		return ""
	case snap.Loading:
		return codeTrackerLoading
	default:
		return codeUpstreamUnavailable
	}
}
