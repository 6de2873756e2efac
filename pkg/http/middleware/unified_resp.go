package middleware

import (
	"github.com/gofiber/fiber/v2"

	httpx "github.com/wachportal/wachportal/pkg/http"
)

const (
	// DETAIL is the locals key a handler sets to attach response data.
	DETAIL = "detail"
	// OPERATION is the locals key a handler sets for data-less success responses.
	OPERATION = "operation"
)

// UnifiedResponseMiddleware wraps handler results into the unified response
// shape. Handlers set c.Locals(DETAIL, value) for payloads, or
// c.Locals(OPERATION, name) for result-only responses.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return httpx.WithRepErrMsg(c, httpx.Failed.Code, httpx.Failed.Msg, c.Path())
		}

		if c.Response().StatusCode() >= fiber.StatusOK && c.Response().StatusCode() < fiber.StatusMultipleChoices {
			if detail := c.Locals(DETAIL); detail != nil {
				return httpx.WithRepJSON(c, detail)
			}

			if c.Locals(OPERATION) != nil {
				return httpx.WithRepNotDetail(c)
			}
		}

		return nil
	}
}
