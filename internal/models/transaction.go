package models

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single dated income or expense record.
// It is created and deleted but never updated in place.
type Transaction struct {
	ID         uint            `gorm:"primaryKey"`
	Amount     int64           `gorm:"not null"`                 // integer currency units
	Date       time.Time       `gorm:"type:date;index;not null"` // calendar day, UTC midnight
	Type       TransactionType `gorm:"size:10;index;not null"`   // income / expense
	CategoryID uint            `gorm:"index;not null"`
	Category   Category        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
