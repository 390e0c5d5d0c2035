package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"personweb/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func orStandard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// renderError renders the HTML error page. It falls back to plain text when
// no view engine is configured.
func renderError(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	err := c.Render("error", fiber.Map{
		"Title":   "Error",
		"Status":  status,
		"Message": message,
	})
	if err != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}

func isAPIRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses:
// the JSON envelope under /api, the rendered error page everywhere else.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		if status >= fiber.StatusInternalServerError && log != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": requestIDFromCtx(c),
				"method":     c.Method(),
				"path":       c.Path(),
			}).Error("unhandled request error")
		}

		code, message := "INTERNAL_ERROR", "internal server error"
		switch status {
		case fiber.StatusBadRequest:
			code, message = "BAD_REQUEST", "bad request"
		case fiber.StatusNotFound:
			code, message = "NOT_FOUND", "resource not found"
		case fiber.StatusMethodNotAllowed:
			code, message = "METHOD_NOT_ALLOWED", "method not allowed"
		}

		if isAPIRequest(c) {
			return writeError(c, status, code, message)
		}
		return renderError(c, status, message)
	}
}
