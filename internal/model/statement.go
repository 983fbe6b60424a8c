package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntry is one row of an imported bank statement, before it is
// turned into a transaction. Amount keeps the bank's sign convention:
// credits positive, debits negative.
type StatementEntry struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}
