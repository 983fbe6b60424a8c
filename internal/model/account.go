package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a user's bank accounts and wallets.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeDebitCard  AccountType = "debit_card"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Account is a bank account or wallet owned by one user. Balance is a
// running sum of all completed transactions affecting it; there is no
// independent ledger of entries behind it.
type Account struct {
	ID            int64
	UserID        int64
	Name          string
	Type          AccountType
	Balance       decimal.Decimal
	Currency      string
	BankName      string
	AccountNumber string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
