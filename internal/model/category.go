package model

import "time"

// CategoryType restricts which transaction types a category may classify.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeBoth    CategoryType = "both"
)

// Category classifies transactions. Names are unique per user.
type Category struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	Color       string // hex color, e.g. "#6B7280"
	Icon        string
	Type        CategoryType
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Allows reports whether the category may classify transactions of type t.
func (c Category) Allows(t TransactionType) bool {
	return c.Type == CategoryTypeBoth || string(c.Type) == string(t)
}
