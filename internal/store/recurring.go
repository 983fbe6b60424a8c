package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
)

const recurringColumns = `id, user_id, title, description, amount, transaction_type, category_id, account_id, frequency, start_date, end_date, next_execution, is_active, created_at, updated_at`

// CreateRecurring inserts a new recurring template and fills in its ID
// and timestamps.
func (s *Store) CreateRecurring(r *model.RecurringTransaction) error {
	ts := now()
	var end any
	if r.EndDate != nil {
		end = r.EndDate.Format(dateLayout)
	}
	res, err := s.db.Exec(`
		INSERT INTO recurring_transactions (user_id, title, description, amount, transaction_type, category_id, account_id, frequency, start_date, end_date, next_execution, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Title, r.Description, r.Amount.StringFixed(2), r.Type,
		r.CategoryID, r.AccountID, r.Frequency, r.StartDate.Format(dateLayout),
		end, r.NextExecution.Format(dateLayout), boolToInt(r.Active), ts, ts)
	if err != nil {
		return fmt.Errorf("inserting recurring transaction: %w", translateConstraint(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading recurring transaction id: %w", err)
	}
	r.ID = id
	r.CreatedAt = parseTime(ts)
	r.UpdatedAt = parseTime(ts)
	return nil
}

// GetRecurring returns one of the user's active recurring templates.
func (s *Store) GetRecurring(userID, id int64) (model.RecurringTransaction, error) {
	row := s.db.QueryRow(`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	return scanRecurring(row)
}

// ListRecurring returns the user's active recurring templates ordered by
// next execution date.
func (s *Store) ListRecurring(userID int64) ([]model.RecurringTransaction, error) {
	rows, err := s.db.Query(`SELECT `+recurringColumns+` FROM recurring_transactions WHERE user_id = ? AND is_active = 1 ORDER BY next_execution`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []model.RecurringTransaction
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRecurring persists mutable fields of a recurring template.
func (s *Store) UpdateRecurring(r *model.RecurringTransaction) error {
	ts := now()
	var end any
	if r.EndDate != nil {
		end = r.EndDate.Format(dateLayout)
	}
	res, err := s.db.Exec(`
		UPDATE recurring_transactions SET title = ?, description = ?, amount = ?, transaction_type = ?, category_id = ?, account_id = ?, frequency = ?, start_date = ?, end_date = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Title, r.Description, r.Amount.StringFixed(2), r.Type, r.CategoryID,
		r.AccountID, r.Frequency, r.StartDate.Format(dateLayout), end,
		boolToInt(r.Active), ts, r.ID, r.UserID)
	if err != nil {
		return fmt.Errorf("updating recurring transaction: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// UpdateNextExecution advances the template's next due date.
func (s *Store) UpdateNextExecution(userID, id int64, next time.Time) error {
	res, err := s.db.Exec(`UPDATE recurring_transactions SET next_execution = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		next.Format(dateLayout), now(), id, userID)
	if err != nil {
		return fmt.Errorf("updating next execution: %w", err)
	}
	return checkAffected(res)
}

// DeleteRecurring removes a recurring template.
func (s *Store) DeleteRecurring(userID, id int64) error {
	res, err := s.db.Exec(`DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting recurring transaction: %w", err)
	}
	return checkAffected(res)
}

func scanRecurring(sc scanner) (model.RecurringTransaction, error) {
	var r model.RecurringTransaction
	var amount, start, next string
	var end sql.NullString
	var active int
	var created, updated string
	err := sc.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &amount, &r.Type,
		&r.CategoryID, &r.AccountID, &r.Frequency, &start, &end, &next,
		&active, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RecurringTransaction{}, ErrNotFound
	}
	if err != nil {
		return model.RecurringTransaction{}, fmt.Errorf("scanning recurring transaction: %w", err)
	}
	r.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.RecurringTransaction{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	r.StartDate = parseDate(start)
	if end.Valid {
		d := parseDate(end.String)
		r.EndDate = &d
	}
	r.NextExecution = parseDate(next)
	r.Active = active != 0
	r.CreatedAt = parseTime(created)
	r.UpdatedAt = parseTime(updated)
	return r, nil
}
