package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

// GET /api/summary
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := svc.Summary(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(sum)
	}
}
