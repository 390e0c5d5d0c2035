package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"personweb/internal/requestid"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = requestid.Header
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request carries an id.
//
// The incoming X-Request-ID header is reused when present, otherwise a UUID is
// generated. The id is stored in the Fiber locals, in the user context (so
// outbound API calls forward it) and echoed in the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(requestid.With(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
