package category

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"finance-backend/internal/apperror"
	"finance-backend/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every category in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// FindByName returns apperror.ErrNotFound when no category has that name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id asc").First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	return &cat, nil
}

// Seed inserts each name that is not stored yet and reports how many rows it created.
// Running it again with the same names is a no-op.
func (r *Repository) Seed(ctx context.Context, names []string) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inTx := NewRepository(tx)
		for _, name := range names {
			_, err := inTx.FindByName(ctx, name)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperror.ErrNotFound) {
				return err
			}
			if err := tx.Create(&models.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("create category %q: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
