package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
)

const transactionColumns = `id, user_id, title, description, amount, transaction_type, category_id, account_id, destination_account_id, date, status, is_recurring, tags, location, notes, created_at, updated_at`

// TransactionFilter narrows ListTransactions. Zero values mean "no
// constraint".
type TransactionFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	AmountFrom  *decimal.Decimal
	AmountTo    *decimal.Decimal
	Types       []model.TransactionType
	Statuses    []model.TransactionStatus
	CategoryIDs []int64
	AccountIDs  []int64
	Recurring   *bool
	Search      string // matches title, description, notes, location
}

// CreateTransaction inserts a new transaction and fills in its ID and
// timestamps.
func (s *Store) CreateTransaction(t *model.Transaction) error {
	tags, err := json.Marshal(tagsOrEmpty(t.Tags))
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	ts := now()
	res, err := s.db.Exec(`
		INSERT INTO transactions (user_id, title, description, amount, transaction_type, category_id, account_id, destination_account_id, date, status, is_recurring, tags, location, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Title, t.Description, t.Amount.StringFixed(2), t.Type,
		t.CategoryID, t.AccountID, nullableID(t.DestinationAccountID),
		t.Date.Format(dateLayout), t.Status, boolToInt(t.Recurring),
		string(tags), t.Location, t.Notes, ts, ts)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", translateConstraint(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading transaction id: %w", err)
	}
	t.ID = id
	t.CreatedAt = parseTime(ts)
	t.UpdatedAt = parseTime(ts)
	return nil
}

// GetTransaction returns one of the user's transactions.
func (s *Store) GetTransaction(userID, id int64) (model.Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

// ListTransactions returns the user's transactions matching the filter,
// newest first.
func (s *Store) ListTransactions(userID int64, f TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.DateFrom != nil {
		query += ` AND date >= ?`
		args = append(args, f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		query += ` AND date <= ?`
		args = append(args, f.DateTo.Format(dateLayout))
	}
	// Amounts are stored as fixed 2-dp strings; CAST keeps the
	// comparison numeric without losing the stored exactness.
	if f.AmountFrom != nil {
		query += ` AND CAST(amount AS REAL) >= ?`
		args = append(args, f.AmountFrom.InexactFloat64())
	}
	if f.AmountTo != nil {
		query += ` AND CAST(amount AS REAL) <= ?`
		args = append(args, f.AmountTo.InexactFloat64())
	}
	if len(f.Types) > 0 {
		query += ` AND transaction_type IN (` + placeholders(len(f.Types)) + `)`
		for _, v := range f.Types {
			args = append(args, v)
		}
	}
	if len(f.Statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(f.Statuses)) + `)`
		for _, v := range f.Statuses {
			args = append(args, v)
		}
	}
	if len(f.CategoryIDs) > 0 {
		query += ` AND category_id IN (` + placeholders(len(f.CategoryIDs)) + `)`
		for _, v := range f.CategoryIDs {
			args = append(args, v)
		}
	}
	if len(f.AccountIDs) > 0 {
		query += ` AND account_id IN (` + placeholders(len(f.AccountIDs)) + `)`
		for _, v := range f.AccountIDs {
			args = append(args, v)
		}
	}
	if f.Recurring != nil {
		query += ` AND is_recurring = ?`
		args = append(args, boolToInt(*f.Recurring))
	}
	if f.Search != "" {
		query += ` AND (title LIKE ? OR description LIKE ? OR notes LIKE ? OR location LIKE ?)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListCompletedBetween returns the user's completed transactions with
// dates in [from, to], optionally limited to one type.
func (s *Store) ListCompletedBetween(userID int64, from, to time.Time, types ...model.TransactionType) ([]model.Transaction, error) {
	f := TransactionFilter{
		DateFrom: &from,
		DateTo:   &to,
		Statuses: []model.TransactionStatus{model.StatusCompleted},
		Types:    types,
	}
	return s.ListTransactions(userID, f)
}

// UpdateTransaction persists mutable fields of a transaction.
func (s *Store) UpdateTransaction(t *model.Transaction) error {
	tags, err := json.Marshal(tagsOrEmpty(t.Tags))
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	ts := now()
	res, err := s.db.Exec(`
		UPDATE transactions SET title = ?, description = ?, amount = ?, transaction_type = ?, category_id = ?, account_id = ?, destination_account_id = ?, date = ?, status = ?, is_recurring = ?, tags = ?, location = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.Amount.StringFixed(2), t.Type, t.CategoryID,
		t.AccountID, nullableID(t.DestinationAccountID), t.Date.Format(dateLayout),
		t.Status, boolToInt(t.Recurring), string(tags), t.Location, t.Notes,
		ts, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// DeleteTransaction removes a transaction.
func (s *Store) DeleteTransaction(userID, id int64) error {
	res, err := s.db.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return checkAffected(res)
}

// CountTransactions returns the user's total transaction count.
func (s *Store) CountTransactions(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

// CountTransactionsInMonth returns the user's transaction count for one
// calendar month.
func (s *Store) CountTransactionsInMonth(userID int64, year int, month time.Month) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND date LIKE ?`,
		userID, prefix+"%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting monthly transactions: %w", err)
	}
	return n, nil
}

func scanTransaction(sc scanner) (model.Transaction, error) {
	var t model.Transaction
	var amount, date, tags string
	var dest sql.NullInt64
	var recurring int
	var created, updated string
	err := sc.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &amount, &t.Type,
		&t.CategoryID, &t.AccountID, &dest, &date, &t.Status, &recurring,
		&tags, &t.Location, &t.Notes, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("scanning transaction: %w", err)
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	if dest.Valid {
		t.DestinationAccountID = &dest.Int64
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return model.Transaction{}, fmt.Errorf("decoding tags: %w", err)
	}
	t.Date = parseDate(date)
	t.Recurring = recurring != 0
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	return t, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
