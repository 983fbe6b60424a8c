// Package ledger maintains account balances as transactions are
// created, edited, and deleted. Apply and Revert are exact inverses:
// applying a transaction and then reverting it leaves every balance
// bit-for-bit where it started.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
)

// BalanceStore shifts one account's stored balance by a signed delta.
type BalanceStore interface {
	AdjustBalance(accountID int64, delta decimal.Decimal) error
}

// Updater applies and reverts the monetary effect of transactions.
type Updater struct {
	store BalanceStore
}

// NewUpdater creates an Updater backed by the given store.
func NewUpdater(store BalanceStore) *Updater {
	return &Updater{store: store}
}

// effect is one balance adjustment implied by a transaction.
type effect struct {
	accountID int64
	delta     decimal.Decimal
}

// effects returns the balance adjustments implied by applying t.
// Pending and cancelled transactions have no effect.
func effects(t model.Transaction) []effect {
	if !t.Completed() {
		return nil
	}
	switch t.Type {
	case model.TransactionTypeIncome:
		return []effect{{t.AccountID, t.Amount}}
	case model.TransactionTypeExpense:
		return []effect{{t.AccountID, t.Amount.Neg()}}
	case model.TransactionTypeTransfer:
		out := []effect{{t.AccountID, t.Amount.Neg()}}
		if t.DestinationAccountID != nil {
			out = append(out, effect{*t.DestinationAccountID, t.Amount})
		}
		return out
	}
	return nil
}

// Apply reflects t's monetary effect in the referenced account
// balances. It is a no-op unless t is completed.
func (u *Updater) Apply(t model.Transaction) error {
	for _, e := range effects(t) {
		if err := u.store.AdjustBalance(e.accountID, e.delta); err != nil {
			return fmt.Errorf("applying transaction %d to account %d: %w", t.ID, e.accountID, err)
		}
	}
	return nil
}

// Revert undoes t's monetary effect. It is the exact inverse of Apply
// and, like Apply, a no-op unless t is completed.
func (u *Updater) Revert(t model.Transaction) error {
	for _, e := range effects(t) {
		if err := u.store.AdjustBalance(e.accountID, e.delta.Neg()); err != nil {
			return fmt.Errorf("reverting transaction %d on account %d: %w", t.ID, e.accountID, err)
		}
	}
	return nil
}
