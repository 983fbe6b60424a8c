package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring template is meant to fire.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// RecurringTransaction is a reusable template for generating concrete
// transactions. It never appears in balance calculations itself, and
// nothing fires it on a timer: NextExecution advances only when a caller
// explicitly executes the template.
type RecurringTransaction struct {
	ID            int64
	UserID        int64
	Title         string
	Description   string
	Amount        decimal.Decimal
	Type          TransactionType
	CategoryID    int64
	AccountID     int64
	Frequency     Frequency
	StartDate     time.Time
	EndDate       *time.Time
	NextExecution time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
