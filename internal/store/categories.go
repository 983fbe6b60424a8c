package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bolso-dev/bolso/internal/model"
)

const categoryColumns = `id, user_id, name, description, color, icon, category_type, is_active, created_at, updated_at`

// CreateCategory inserts a new category and fills in its ID and timestamps.
func (s *Store) CreateCategory(c *model.Category) error {
	ts := now()
	res, err := s.db.Exec(`
		INSERT INTO categories (user_id, name, description, color, icon, category_type, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Description, c.Color, c.Icon, c.Type,
		boolToInt(c.Active), ts, ts)
	if err != nil {
		return fmt.Errorf("inserting category: %w", translateConstraint(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading category id: %w", err)
	}
	c.ID = id
	c.CreatedAt = parseTime(ts)
	c.UpdatedAt = parseTime(ts)
	return nil
}

// GetCategory returns one of the user's active categories.
func (s *Store) GetCategory(userID, id int64) (model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	return scanCategory(row)
}

// ListCategories returns the user's active categories ordered by name.
func (s *Store) ListCategories(userID int64) ([]model.Category, error) {
	return s.queryCategories(`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? AND is_active = 1 ORDER BY name`, userID)
}

// ListCategoriesByType returns active categories usable for the given
// transaction type, which includes categories typed "both".
func (s *Store) ListCategoriesByType(userID int64, categoryType model.CategoryType) ([]model.Category, error) {
	return s.queryCategories(`
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = ? AND is_active = 1 AND category_type IN (?, 'both')
		ORDER BY name`, userID, categoryType)
}

// UpdateCategory persists mutable fields of a category.
func (s *Store) UpdateCategory(c *model.Category) error {
	ts := now()
	res, err := s.db.Exec(`
		UPDATE categories SET name = ?, description = ?, color = ?, icon = ?, category_type = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		c.Name, c.Description, c.Color, c.Icon, c.Type,
		boolToInt(c.Active), ts, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("updating category: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// DeleteCategory removes a category. Fails with ErrInUse while
// transactions still reference it.
func (s *Store) DeleteCategory(userID, id int64) error {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", translateConstraint(err))
	}
	return checkAffected(res)
}

// CountTransactionsForCategory returns how many of the user's
// transactions reference the category.
func (s *Store) CountTransactionsForCategory(userID, categoryID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND category_id = ?`,
		userID, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting category transactions: %w", err)
	}
	return n, nil
}

func (s *Store) queryCategories(query string, args ...any) ([]model.Category, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCategory(sc scanner) (model.Category, error) {
	var c model.Category
	var active int
	var created, updated string
	err := sc.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon,
		&c.Type, &active, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("scanning category: %w", err)
	}
	c.Active = active != 0
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return c, nil
}
