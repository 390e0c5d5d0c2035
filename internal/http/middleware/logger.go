package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Logger logs each HTTP request as one structured entry with the fields
// request_id, method, path, status and latency (milliseconds, as float).
// Server errors are logged at error level, everything else at info.
// A trace_id field is added when the request carries a trace.
func Logger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// The global error handler has not run yet; ask it now so the logged
		// status matches what the client receives.
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		entry := log.WithFields(logrus.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			entry = entry.WithField("trace_id", sc.TraceID().String())
		}
		if status >= fiber.StatusInternalServerError {
			entry.Error("request completed")
		} else {
			entry.Info("request completed")
		}

		return err
	}
}
