package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListCategories returns one page of the user's categories, newest first.
func (s *Store) ListCategories(ctx context.Context, userID int64, p Page) (PageResult[Category], error) {
	p = p.Normalize()

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return PageResult[Category]{}, fmt.Errorf("count categories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, userID, p.Size, p.offset())
	if err != nil {
		return PageResult[Category]{}, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		return PageResult[Category]{}, err
	}
	return NewPageResult(categories, p, total), nil
}

// CategoryByID returns the category when the user owns it.
func (s *Store) CategoryByID(ctx context.Context, userID, id int64) (Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// CreateCategory adds a category. Names are unique per user.
func (s *Store) CreateCategory(ctx context.Context, userID int64, name string) (Category, error) {
	c := Category{UserID: userID, Name: name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, userID, name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return Category{}, ErrDuplicateCategory
		}
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// UpdateCategory renames a category. Keeping the current name is allowed.
func (s *Store) UpdateCategory(ctx context.Context, userID, id int64, name string) (Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, created_at, updated_at
	`, name, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return Category{}, ErrDuplicateCategory
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category that no transaction references.
func (s *Store) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategories(rows *sql.Rows) ([]Category, error) {
	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
