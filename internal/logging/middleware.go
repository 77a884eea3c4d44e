package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request once the handler chain has finished.
// 4xx responses are logged at warn, 5xx at error.
func RequestLogger(logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		// Render the error now so the logged status is the one the client sees.
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		entry := logger.WithFields(logrus.Fields{
			FieldMethod:   c.Method(),
			FieldPath:     c.Path(),
			FieldStatus:   status,
			FieldDuration: time.Since(start).Milliseconds(),
			FieldClientIP: c.IP(),
		})

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request completed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
		return nil
	}
}
