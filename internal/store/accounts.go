package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
)

const accountColumns = `id, user_id, name, account_type, balance, currency, bank_name, account_number, is_active, created_at, updated_at`

// CreateAccount inserts a new account and fills in its ID and timestamps.
func (s *Store) CreateAccount(a *model.Account) error {
	ts := now()
	res, err := s.db.Exec(`
		INSERT INTO accounts (user_id, name, account_type, balance, currency, bank_name, account_number, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Type, a.Balance.StringFixed(2), a.Currency,
		a.BankName, a.AccountNumber, boolToInt(a.Active), ts, ts)
	if err != nil {
		return fmt.Errorf("inserting account: %w", translateConstraint(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading account id: %w", err)
	}
	a.ID = id
	a.CreatedAt = parseTime(ts)
	a.UpdatedAt = parseTime(ts)
	return nil
}

// GetAccount returns one of the user's active accounts.
func (s *Store) GetAccount(userID, id int64) (model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	return scanAccount(row)
}

// ListAccounts returns the user's active accounts ordered by name.
func (s *Store) ListAccounts(userID int64) ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? AND is_active = 1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAccount persists mutable fields of an account.
func (s *Store) UpdateAccount(a *model.Account) error {
	ts := now()
	res, err := s.db.Exec(`
		UPDATE accounts SET name = ?, account_type = ?, currency = ?, bank_name = ?, account_number = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		a.Name, a.Type, a.Currency, a.BankName, a.AccountNumber,
		boolToInt(a.Active), ts, a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("updating account: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// DeleteAccount removes an account. Fails with ErrInUse while
// transactions still reference it.
func (s *Store) DeleteAccount(userID, id int64) error {
	res, err := s.db.Exec(`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting account: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// AdjustBalance shifts an account's balance by a signed delta. The
// read-add-write sequence is deliberately not serialized against
// concurrent writers; the balance column is the single source of truth
// and the caller is expected to invoke this exactly once per effect.
func (s *Store) AdjustBalance(accountID int64, delta decimal.Decimal) error {
	var raw string
	err := s.db.QueryRow(`SELECT balance FROM accounts WHERE id = ?`, accountID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading balance: %w", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parsing balance %q: %w", raw, err)
	}

	_, err = s.db.Exec(`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ?`,
		balance.Add(delta).StringFixed(2), now(), accountID)
	if err != nil {
		return fmt.Errorf("writing balance: %w", err)
	}
	return nil
}

// SetBalance overwrites an account's balance with an explicit value.
func (s *Store) SetBalance(userID, id int64, balance decimal.Decimal) error {
	res, err := s.db.Exec(`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		balance.StringFixed(2), now(), id, userID)
	if err != nil {
		return fmt.Errorf("writing balance: %w", err)
	}
	return checkAffected(res)
}

// CountTransactionsForAccount returns how many of the user's
// transactions reference the account as source or destination.
func (s *Store) CountTransactionsForAccount(userID, accountID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM transactions
		WHERE user_id = ? AND (account_id = ? OR destination_account_id = ?)`,
		userID, accountID, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting account transactions: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (model.Account, error) {
	var a model.Account
	var balance string
	var active int
	var created, updated string
	err := sc.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &balance, &a.Currency,
		&a.BankName, &a.AccountNumber, &active, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("scanning account: %w", err)
	}
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", balance, err)
	}
	a.Active = active != 0
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return a, nil
}
