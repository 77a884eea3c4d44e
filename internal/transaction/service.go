package transaction

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"finance-backend/internal/apperror"
	"finance-backend/internal/models"
)

const DateLayout = "2006-01-02"

// Store is the persistence the service needs; *Repository implements it.
type Store interface {
	Create(ctx context.Context, categoryName string, t *models.Transaction) error
	List(ctx context.Context, f ListFilter) ([]models.Transaction, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (int64, error)
}

// CreateRequest is the body of the income and expense endpoints.
// The type is not part of it: it comes from the endpoint that was called.
// Amount is capped so the summary sums cannot overflow BIGINT.
type CreateRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Category string `json:"category" validate:"required"`
	Amount   int64  `json:"amount" validate:"gt=0,lte=1000000000000"`
}

type Service struct {
	store    Store
	validate *validator.Validate
	log      logrus.FieldLogger
}

func NewService(store Store, logger logrus.FieldLogger) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{store: store, validate: v, log: logger}
}

// Create validates req and stores a new transaction of the given type.
// Nothing is written when validation or category resolution fails.
func (s *Service) Create(ctx context.Context, typ models.TransactionType, req CreateRequest) (*models.Transaction, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q", typ)
	}

	req.Category = strings.TrimSpace(req.Category)
	req.Date = strings.TrimSpace(req.Date)
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, apperror.NewValidation("date", "must be a date in YYYY-MM-DD format")
	}

	t := &models.Transaction{
		Amount: req.Amount,
		Date:   date,
		Type:   typ,
	}
	if err := s.store.Create(ctx, req.Category, t); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":       t.ID,
		"type":     t.Type,
		"amount":   t.Amount,
		"category": t.Category.Name,
	}).Info("transaction created")
	return t, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Transaction, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("id", id).Info("transaction deleted")
	return nil
}

// Reset removes all transactions; categories stay.
func (s *Service) Reset(ctx context.Context) error {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return err
	}
	s.log.WithField("deleted", n).Warn("all transactions reset")
	return nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.NewValidation("", err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.NewValidation(fe.Field(), "is required")
	case "gt":
		return apperror.NewValidation(fe.Field(), "must be greater than "+fe.Param())
	case "lte":
		return apperror.NewValidation(fe.Field(), "must be at most "+fe.Param())
	case "datetime":
		return apperror.NewValidation(fe.Field(), "must be a date in YYYY-MM-DD format")
	default:
		return apperror.NewValidation(fe.Field(), "is invalid")
	}
}
