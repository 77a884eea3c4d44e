package models

// Category is one of the fixed labels a transaction is tagged with ("salary", "food", ...).
// Rows are seeded once at startup and never updated or deleted.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null;index"`
}

// DefaultCategoryNames are the keys the dashboard frontend knows how to render.
var DefaultCategoryNames = []string{
	"salary", "bonus", "investment", "communication", "transportation",
	"savings", "living", "food", "medical", "etc",
}
