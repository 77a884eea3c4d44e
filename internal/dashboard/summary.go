package dashboard

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"finance-backend/internal/models"
)

// Summary is the aggregate view the dashboard renders.
type Summary struct {
	TotalIncome       int64            `json:"totalIncome"`
	TotalExpense      int64            `json:"totalExpense"`
	ExpenseByCategory map[string]int64 `json:"expenseByCategory"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Summary sums amounts per transaction type and expense amounts per category name.
// Both queries run in one transaction so they see the same snapshot.
// Categories without expense transactions do not appear in ExpenseByCategory.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	res := &Summary{ExpenseByCategory: map[string]int64{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type typeRow struct {
			Type  models.TransactionType `gorm:"column:type"`
			Total int64                  `gorm:"column:total"`
		}
		var totals []typeRow
		if err := tx.Model(&models.Transaction{}).
			Select("type, CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total").
			Group("type").
			Scan(&totals).Error; err != nil {
			return fmt.Errorf("sum by type: %w", err)
		}
		for _, r := range totals {
			switch r.Type {
			case models.TransactionIncome:
				res.TotalIncome = r.Total
			case models.TransactionExpense:
				res.TotalExpense = r.Total
			}
		}

		type categoryRow struct {
			Name  string `gorm:"column:name"`
			Total int64  `gorm:"column:total"`
		}
		var byCategory []categoryRow
		if err := tx.Model(&models.Transaction{}).
			Select("categories.name AS name, CAST(SUM(transactions.amount) AS BIGINT) AS total").
			Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("transactions.type = ?", models.TransactionExpense).
			Group("categories.name").
			Scan(&byCategory).Error; err != nil {
			return fmt.Errorf("sum expenses by category: %w", err)
		}
		for _, r := range byCategory {
			res.ExpenseByCategory[r.Name] = r.Total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
