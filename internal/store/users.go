package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bolso-dev/bolso/internal/model"
)

const userColumns = `id, email, username, first_name, last_name, password_hash, currency, timezone, is_active, created_at, updated_at`

// CreateUser inserts a new user and fills in its ID and timestamps.
func (s *Store) CreateUser(u *model.User) error {
	ts := now()
	res, err := s.db.Exec(`
		INSERT INTO users (email, username, first_name, last_name, password_hash, currency, timezone, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash,
		u.Currency, u.Timezone, boolToInt(u.Active), ts, ts)
	if err != nil {
		return fmt.Errorf("inserting user: %w", translateConstraint(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	u.CreatedAt = parseTime(ts)
	u.UpdatedAt = parseTime(ts)
	return nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(id int64) (model.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns a user by email address.
func (s *Store) GetUserByEmail(email string) (model.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UpdateUser persists profile fields for an existing user.
func (s *Store) UpdateUser(u *model.User) error {
	ts := now()
	res, err := s.db.Exec(`
		UPDATE users SET username = ?, first_name = ?, last_name = ?, currency = ?, timezone = ?, updated_at = ?
		WHERE id = ?`,
		u.Username, u.FirstName, u.LastName, u.Currency, u.Timezone, ts, u.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// UpdateUserPassword replaces a user's password hash.
func (s *Store) UpdateUserPassword(id int64, passwordHash string) error {
	res, err := s.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, now(), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return checkAffected(res)
}

// SetUserActive flips the soft-delete flag on a user.
func (s *Store) SetUserActive(id int64, active bool) error {
	res, err := s.db.Exec(`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), now(), id)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return checkAffected(res)
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var active int
	var created, updated string
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Currency, &u.Timezone, &active, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scanning user: %w", err)
	}
	u.Active = active != 0
	u.CreatedAt = parseTime(created)
	u.UpdatedAt = parseTime(updated)
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
