package transaction

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"finance-backend/internal/category"
	"finance-backend/internal/models"
)

type TransactionResponse struct {
	ID       uint                      `json:"id"`
	Amount   int64                     `json:"amount"`
	Date     string                    `json:"date"`
	Type     models.TransactionType    `json:"type"`
	Category category.CategoryResponse `json:"category"`
}

func toResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:     t.ID,
		Amount: t.Amount,
		Date:   t.Date.Format(DateLayout),
		Type:   t.Type,
		Category: category.CategoryResponse{
			ID:   t.Category.ID,
			Name: t.Category.Name,
		},
	}
}

// GET /api/transactions[?date=2024-01-31]
func ListTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f ListFilter
		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse(DateLayout, dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be in YYYY-MM-DD format")
			}
			f.Date = &d
		}

		rows, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}

		resp := make([]TransactionResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toResponse(&rows[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/transactions/income and /api/transactions/expense
func CreateTransactionHandler(svc *Service, typ models.TransactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		t, err := svc.Create(c.UserContext(), typ, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(t))
	}
}

// DELETE /api/transactions/:id
func DeleteTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
		}

		if err := svc.Delete(c.UserContext(), uint(id)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/data/reset
func ResetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Reset(c.UserContext()); err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).Send(nil)
	}
}
