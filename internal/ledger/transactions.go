package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finance-tracker-backend/internal/dashboard"
)

const transactionColumns = `
	t.id, t.user_id, t.type, t.amount, t.description, t.occurred_on,
	t.category_id, c.name, t.created_at, t.updated_at`

// filterClause renders the WHERE clause for a listing. Placeholders start at $1.
func filterClause(userID int64, f TransactionFilter) (string, []any) {
	conds := []string{"t.user_id = $1"}
	args := []any{userID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Kind != "" {
		add("t.type = $%d", string(f.Kind))
	}
	if f.CategoryID != 0 {
		add("t.category_id = $%d", f.CategoryID)
	}
	if !f.StartDate.IsZero() {
		add("t.occurred_on >= $%d", dashboard.DateOf(f.StartDate))
	}
	if !f.EndDate.IsZero() {
		add("t.occurred_on <= $%d", dashboard.DateOf(f.EndDate))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListTransactions returns one page of the user's transactions, newest id first.
func (s *Store) ListTransactions(ctx context.Context, userID int64, f TransactionFilter, p Page) (PageResult[Transaction], error) {
	p = p.Normalize()
	where, args := filterClause(userID, f)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t `+where, args...).Scan(&total); err != nil {
		return PageResult[Transaction]{}, fmt.Errorf("count transactions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		%s
		ORDER BY t.id DESC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Size, p.offset())...)
	if err != nil {
		return PageResult[Transaction]{}, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return PageResult[Transaction]{}, err
	}
	return NewPageResult(txs, p, total), nil
}

// TransactionByID returns the transaction when the user owns it.
func (s *Store) TransactionByID(ctx context.Context, userID, id int64) (Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.user_id = $2
	`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

// CreateTransaction records a transaction under one of the user's categories.
func (s *Store) CreateTransaction(ctx context.Context, userID int64, in TransactionInput) (Transaction, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, category_id, type, amount, description, occurred_on)
		SELECT $1, c.id, $3::varchar, $4::numeric, $5::varchar, $6::date
		FROM categories c
		WHERE c.id = $2 AND c.user_id = $1
		RETURNING id
	`, userID, in.CategoryID, string(in.Kind), in.Amount, in.Description, dashboard.DateOf(in.OccurredOn)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// the category does not exist or belongs to someone else
		return Transaction{}, ErrNotFound
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return s.TransactionByID(ctx, userID, id)
}

// UpdateTransaction replaces the writable fields of a transaction.
func (s *Store) UpdateTransaction(ctx context.Context, userID, id int64, in TransactionInput) (Transaction, error) {
	if _, err := s.CategoryByID(ctx, userID, in.CategoryID); err != nil {
		return Transaction{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = $1, type = $2, amount = $3, description = $4, occurred_on = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND user_id = $7
	`, in.CategoryID, string(in.Kind), in.Amount, in.Description, dashboard.DateOf(in.OccurredOn), id, userID)
	if err != nil {
		return Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Transaction{}, ErrNotFound
	}
	return s.TransactionByID(ctx, userID, id)
}

// DeleteTransaction removes one of the user's transactions.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AllTransactionsForUser returns the user's full history ordered by date.
// The read runs in one repeatable-read transaction so totals and the daily
// series are computed from the same point in time.
func (s *Store) AllTransactionsForUser(ctx context.Context, userID int64) ([]Transaction, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.occurred_on ASC, t.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit read: %w", err)
	}
	return txs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var kind string
	err := row.Scan(&t.ID, &t.UserID, &kind, &t.Amount, &t.Description, &t.OccurredOn,
		&t.CategoryID, &t.CategoryName, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Transaction{}, err
	}
	t.Kind = dashboard.Kind(kind)
	return t, nil
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	txs := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
