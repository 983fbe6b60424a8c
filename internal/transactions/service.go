package transactions

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/ledger"
	"github.com/bolso-dev/bolso/internal/model"
	"github.com/bolso-dev/bolso/internal/store"
)

// Service provides business logic for transactions: validation, balance
// maintenance, and period aggregations.
type Service struct {
	store  *store.Store
	ledger *ledger.Updater
}

// NewService creates a transaction Service.
func NewService(st *store.Store, updater *ledger.Updater) *Service {
	return &Service{store: st, ledger: updater}
}

// Create validates the candidate transaction, persists it, and applies
// its monetary effect to the referenced accounts.
func (s *Service) Create(t *model.Transaction) error {
	if err := s.validate(*t); err != nil {
		return err
	}
	if err := s.store.CreateTransaction(t); err != nil {
		return err
	}
	if err := s.ledger.Apply(*t); err != nil {
		return fmt.Errorf("updating balances: %w", err)
	}
	return nil
}

// Update reverts the stored transaction's balance effect, persists the
// edit, then applies the new effect. The two balance writes are not
// wrapped in one storage transaction: a crash between revert and apply
// leaves balances inconsistent.
func (s *Service) Update(t *model.Transaction) error {
	old, err := s.store.GetTransaction(t.UserID, t.ID)
	if err != nil {
		return err
	}
	if err := s.validate(*t); err != nil {
		return err
	}
	if err := s.ledger.Revert(old); err != nil {
		return fmt.Errorf("reverting balances: %w", err)
	}
	if err := s.store.UpdateTransaction(t); err != nil {
		return err
	}
	if err := s.ledger.Apply(*t); err != nil {
		return fmt.Errorf("updating balances: %w", err)
	}
	return nil
}

// Delete reverts the stored transaction's balance effect and removes
// the record.
func (s *Service) Delete(userID, id int64) error {
	old, err := s.store.GetTransaction(userID, id)
	if err != nil {
		return err
	}
	if err := s.ledger.Revert(old); err != nil {
		return fmt.Errorf("reverting balances: %w", err)
	}
	return s.store.DeleteTransaction(userID, id)
}

// Get returns one of the user's transactions.
func (s *Service) Get(userID, id int64) (model.Transaction, error) {
	return s.store.GetTransaction(userID, id)
}

// List returns the user's transactions matching the filter.
func (s *Service) List(userID int64, f store.TransactionFilter) ([]model.Transaction, error) {
	return s.store.ListTransactions(userID, f)
}

// validate resolves the referenced account(s) and category and runs the
// cross-field rules. Missing references surface as store.ErrNotFound.
func (s *Service) validate(t model.Transaction) error {
	if _, err := s.store.GetAccount(t.UserID, t.AccountID); err != nil {
		return fmt.Errorf("account %d: %w", t.AccountID, err)
	}
	if t.DestinationAccountID != nil {
		if _, err := s.store.GetAccount(t.UserID, *t.DestinationAccountID); err != nil {
			return fmt.Errorf("destination account %d: %w", *t.DestinationAccountID, err)
		}
	}
	category, err := s.store.GetCategory(t.UserID, t.CategoryID)
	if err != nil {
		return fmt.Errorf("category %d: %w", t.CategoryID, err)
	}
	return Validate(t, category)
}

// Summary aggregates completed transactions over a date range.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	TotalTransfer decimal.Decimal
	Balance       decimal.Decimal // income minus expense
	Count         int
	PeriodStart   time.Time
	PeriodEnd     time.Time
}

// Summarize totals the user's completed transactions per type over
// [from, to]. Zero from/to default to the current calendar month.
func (s *Service) Summarize(userID int64, from, to time.Time) (Summary, error) {
	from, to = defaultPeriod(from, to)

	txs, err := s.store.ListCompletedBetween(userID, from, to)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{PeriodStart: from, PeriodEnd: to, Count: len(txs)}
	for _, t := range txs {
		switch t.Type {
		case model.TransactionTypeIncome:
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
		case model.TransactionTypeExpense:
			sum.TotalExpense = sum.TotalExpense.Add(t.Amount)
		case model.TransactionTypeTransfer:
			sum.TotalTransfer = sum.TotalTransfer.Add(t.Amount)
		}
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)
	return sum, nil
}

// CategorySummary is one category's share of a period's completed
// transactions of a single type.
type CategorySummary struct {
	Category    model.Category
	TotalAmount decimal.Decimal
	Count       int
	Percentage  decimal.Decimal // of the period total, 2 decimal places
}

// ByCategory groups the user's completed transactions of one type over
// [from, to] by category, largest total first. Zero from/to default to
// the current calendar month.
func (s *Service) ByCategory(userID int64, from, to time.Time, txType model.TransactionType) ([]CategorySummary, error) {
	from, to = defaultPeriod(from, to)

	txs, err := s.store.ListCompletedBetween(userID, from, to, txType)
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]*CategorySummary)
	var order []int64
	grand := decimal.Zero
	for _, t := range txs {
		cs, ok := totals[t.CategoryID]
		if !ok {
			cs = &CategorySummary{}
			totals[t.CategoryID] = cs
			order = append(order, t.CategoryID)
		}
		cs.TotalAmount = cs.TotalAmount.Add(t.Amount)
		cs.Count++
		grand = grand.Add(t.Amount)
	}

	out := make([]CategorySummary, 0, len(order))
	for _, id := range order {
		cs := totals[id]
		category, err := s.store.GetCategory(userID, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		cs.Category = category
		if grand.IsPositive() {
			cs.Percentage = cs.TotalAmount.Mul(decimal.NewFromInt(100)).DivRound(grand, 2)
		}
		out = append(out, *cs)
	}

	// Largest share first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount.GreaterThan(out[j].TotalAmount)
	})
	return out, nil
}

// defaultPeriod fills missing range bounds: a zero from becomes the
// first day of the current month, a zero to becomes the last day of the
// month containing from.
func defaultPeriod(from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		nowDate := time.Now()
		from = time.Date(nowDate.Year(), nowDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		firstOfNext := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		to = firstOfNext.AddDate(0, 0, -1)
	}
	return from, to
}
