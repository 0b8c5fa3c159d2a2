package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/dashboard"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateCategory = errors.New("a category with this name already exists")
	ErrCategoryInUse     = errors.New("category has transactions")
)

// User is an account owner.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category represents a transaction category
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction represents a financial transaction
type Transaction struct {
	ID           int64
	UserID       int64
	Kind         dashboard.Kind
	Amount       decimal.Decimal
	Description  string
	OccurredOn   time.Time
	CategoryID   int64
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Entry converts a transaction into the form the dashboard consumes.
func (t Transaction) Entry() dashboard.Entry {
	return dashboard.Entry{
		Kind:       t.Kind,
		Amount:     t.Amount,
		OccurredOn: t.OccurredOn,
		Category:   t.CategoryName,
	}
}

// TransactionInput carries the writable fields of a transaction.
type TransactionInput struct {
	Kind        dashboard.Kind
	Amount      decimal.Decimal
	Description string
	OccurredOn  time.Time
	CategoryID  int64
}

// TransactionFilter narrows a transaction listing. Zero values mean "any".
type TransactionFilter struct {
	Kind       dashboard.Kind
	CategoryID int64
	StartDate  time.Time
	EndDate    time.Time
}
