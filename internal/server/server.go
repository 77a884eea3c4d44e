// Package server wires the stores, services and handlers into a fiber app.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"finance-backend/internal/apperror"
	"finance-backend/internal/auth"
	"finance-backend/internal/category"
	"finance-backend/internal/config"
	"finance-backend/internal/dashboard"
	"finance-backend/internal/database"
	"finance-backend/internal/logging"
	"finance-backend/internal/models"
	"finance-backend/internal/transaction"
)

// New builds the HTTP application: database -> repositories -> services -> handlers.
func New(cfg *config.Config, db *gorm.DB, logger logrus.FieldLogger) *fiber.App {
	httpLog := logging.Component(logger, "http")

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(httpLog),
	})

	app.Use(recover.New())
	app.Use(logging.RequestLogger(httpLog))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))

	categories := category.NewRepository(db)
	transactions := transaction.NewService(
		transaction.NewRepository(db),
		logging.Component(logger, "transaction"),
	)
	summaries := dashboard.NewService(db)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	if cfg.AuthSecret != "" {
		api.Use(auth.JWTMiddleware(cfg.AuthSecret))
	}

	api.Get("/categories", category.ListCategoriesHandler(categories))

	api.Get("/transactions", transaction.ListTransactionsHandler(transactions))
	api.Post("/transactions/income", transaction.CreateTransactionHandler(transactions, models.TransactionIncome))
	api.Post("/transactions/expense", transaction.CreateTransactionHandler(transactions, models.TransactionExpense))
	api.Delete("/transactions/:id", transaction.DeleteTransactionHandler(transactions))

	api.Get("/summary", dashboard.SummaryHandler(summaries))
	api.Post("/data/reset", transaction.ResetHandler(transactions))

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	return app
}

// ErrorHandler renders every error as {"error": message} with a status derived from its kind.
func ErrorHandler(logger logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				logging.FieldError: err.Error(),
				logging.FieldPath:  c.Path(),
			}).Error("unexpected error")
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	switch {
	case apperror.IsValidation(err):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrInvalidCategory):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
