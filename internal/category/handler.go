package category

import (
	"github.com/gofiber/fiber/v2"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GET /api/categories
func ListCategoriesHandler(repo *Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := repo.List(c.UserContext())
		if err != nil {
			return err
		}

		res := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, CategoryResponse{
				ID:   cat.ID,
				Name: cat.Name,
			})
		}
		return c.JSON(res)
	}
}
