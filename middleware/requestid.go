// middleware/requestid.go
package middleware

import (
	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDKey = "requestid"

// RequestID tags every request with a UUID, echoed in X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

// Logger returns an apex log entry carrying the request id and, when
// authenticated, the caller's user id.
func Logger(c *fiber.Ctx) *log.Entry {
	fields := log.Fields{
		"request_id": c.Locals(requestIDKey),
		"method":     c.Method(),
		"path":       c.Path(),
	}
	if id, err := GetUserID(c); err == nil {
		fields["user_id"] = id
	}
	return log.WithFields(fields)
}
