package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/dashboard"
)

var defaultCategories = []string{
	"Groceries", "Rent", "Utilities", "Transportation", "Entertainment", "Salary", "Freelance",
}

type demoTransaction struct {
	daysAgo     int
	description string
	amount      string
	category    string
	kind        dashboard.Kind
}

// demo history spread over the last ~40 days so both the previous and the
// current month have activity
var demoTransactions = []demoTransaction{
	{40, "Monthly Salary", "3200.00", "Salary", dashboard.Income},
	{38, "Rent - Apartment", "1500.00", "Rent", dashboard.Expense},
	{28, "Monthly Salary", "3200.00", "Salary", dashboard.Income},
	{25, "Freelance: Landing Page", "850.00", "Freelance", dashboard.Income},
	{24, "Rent - Apartment", "1500.00", "Rent", dashboard.Expense},
	{22, "Utilities - Electricity", "120.45", "Utilities", dashboard.Expense},
	{20, "Groceries - Whole Foods", "96.72", "Groceries", dashboard.Expense},
	{19, "Subway Pass", "45.00", "Transportation", dashboard.Expense},
	{16, "Movie Night", "28.50", "Entertainment", dashboard.Expense},
	{14, "Groceries - Trader Joes", "64.11", "Groceries", dashboard.Expense},
	{13, "Freelance: Dashboard Charts", "600.00", "Freelance", dashboard.Income},
	{11, "Utilities - Internet", "60.00", "Utilities", dashboard.Expense},
	{8, "Concert Tickets", "140.00", "Entertainment", dashboard.Expense},
	{6, "Groceries - Costco", "132.39", "Groceries", dashboard.Expense},
	{4, "Rideshare", "22.30", "Transportation", dashboard.Expense},
	{1, "Dinner Out", "54.80", "Entertainment", dashboard.Expense},
}

// SeedDemo gives a user the default categories and a demo history relative
// to today. It does nothing when the user already has transactions.
func (s *Store) SeedDemo(ctx context.Context, userID int64, today time.Time) error {
	var cnt int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&cnt); err != nil {
		return fmt.Errorf("checking transactions count: %w", err)
	}
	if cnt > 0 {
		s.log.Info().Int64("user_id", userID).Int("transactions", cnt).Msg("User already has data, skipping demo seed")
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	categoryIDs := make(map[string]int64, len(defaultCategories))
	for _, name := range defaultCategories {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (user_id, name) VALUES ($1, $2)
			ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, userID, name).Scan(&id)
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
		categoryIDs[name] = id
	}

	today = dashboard.DateOf(today)
	for _, d := range demoTransactions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (user_id, category_id, type, amount, description, occurred_on)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, userID, categoryIDs[d.category], string(d.kind), decimal.RequireFromString(d.amount),
			d.description, today.AddDate(0, 0, -d.daysAgo))
		if err != nil {
			return fmt.Errorf("seeding demo transactions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Int("transactions", len(demoTransactions)).Msg("Demo data seeded")
	return nil
}
