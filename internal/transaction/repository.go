package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finance-backend/internal/apperror"
	"finance-backend/internal/category"
	"finance-backend/internal/models"
)

// ListFilter narrows List. The zero value lists everything.
type ListFilter struct {
	Date *time.Time // calendar day
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create resolves categoryName and inserts t in one database transaction.
// An unknown name yields apperror.ErrInvalidCategory and nothing is written.
func (r *Repository) Create(ctx context.Context, categoryName string, t *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := category.NewRepository(tx).FindByName(ctx, categoryName)
		if errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("%w: %s", apperror.ErrInvalidCategory, categoryName)
		}
		if err != nil {
			return err
		}

		t.CategoryID = cat.ID
		if err := tx.Omit("Category").Create(t).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		t.Category = *cat
		return nil
	})
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).Preload("Category")
	if f.Date != nil {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	}

	var rows []models.Transaction
	if err := q.Order("date asc, id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return rows, nil
}

// Delete removes exactly the record with the given id, or returns apperror.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		err := tx.Select("id").First(&t, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("transaction %d: %w", id, apperror.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("find transaction %d: %w", id, err)
		}
		if err := tx.Delete(&models.Transaction{}, id).Error; err != nil {
			return fmt.Errorf("delete transaction %d: %w", id, err)
		}
		return nil
	})
}

// DeleteAll removes every transaction in a single statement. Categories are kept.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete all transactions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
