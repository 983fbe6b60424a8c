package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the monetary direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus tracks a transaction's lifecycle. Only completed
// transactions are reflected in account balances.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a single financial movement owned by one user.
// DestinationAccountID is set only for transfers.
type Transaction struct {
	ID                   int64
	UserID               int64
	Title                string
	Description          string
	Amount               decimal.Decimal // always positive; type carries the sign
	Type                 TransactionType
	CategoryID           int64
	AccountID            int64
	DestinationAccountID *int64
	Date                 time.Time
	Status               TransactionStatus
	Recurring            bool
	Tags                 []string
	Location             string
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Completed reports whether the transaction's monetary effect should be
// reflected in account balances.
func (t Transaction) Completed() bool {
	return t.Status == StatusCompleted
}
