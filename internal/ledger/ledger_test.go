package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-tracker-backend/internal/dashboard"
)

func TestFilterClause_UserOnly(t *testing.T) {
	where, args := filterClause(7, TransactionFilter{})

	assert.Equal(t, "WHERE t.user_id = $1", where)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestFilterClause_AllFilters(t *testing.T) {
	start := time.Date(2024, time.March, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	where, args := filterClause(7, TransactionFilter{
		Kind:       dashboard.Expense,
		CategoryID: 3,
		StartDate:  start,
		EndDate:    end,
	})

	assert.Equal(t, "WHERE t.user_id = $1 AND t.type = $2 AND t.category_id = $3 AND t.occurred_on >= $4 AND t.occurred_on <= $5", where)
	require.Len(t, args, 5)
	assert.Equal(t, "EXPENSE", args[1])
	assert.Equal(t, int64(3), args[2])
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), args[3])
}

func TestFilterClause_NumbersPlaceholdersInOrder(t *testing.T) {
	where, args := filterClause(1, TransactionFilter{EndDate: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)})

	assert.Equal(t, "WHERE t.user_id = $1 AND t.occurred_on <= $2", where)
	assert.Len(t, args, 2)
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Number: 0, Size: DefaultPageSize}, Page{Number: -1}.Normalize())
	assert.Equal(t, Page{Number: 2, Size: MaxPageSize}, Page{Number: 2, Size: 1000}.Normalize())
	assert.Equal(t, Page{Number: 1, Size: 10}, Page{Number: 1, Size: 10}.Normalize())
	assert.Equal(t, 20, Page{Number: 2, Size: 10}.offset())
}

func TestPageNormalize_HugeNumberKeepsOffsetPositive(t *testing.T) {
	p := Page{Number: math.MaxInt, Size: MaxPageSize}.Normalize()
	assert.Equal(t, MaxPageNumber, p.Number)
	assert.Positive(t, p.offset())
	assert.LessOrEqual(t, p.offset(), math.MaxInt32)
}

func TestNewPageResult(t *testing.T) {
	r := NewPageResult([]int{1, 2, 3}, Page{Number: 0, Size: 3}, 7)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.First)
	assert.False(t, r.Last)

	r = NewPageResult([]int{7}, Page{Number: 2, Size: 3}, 7)
	assert.False(t, r.First)
	assert.True(t, r.Last)
}

func TestNewPageResult_Empty(t *testing.T) {
	r := NewPageResult[Category](nil, Page{Number: 0, Size: 30}, 0)

	assert.NotNil(t, r.Content)
	assert.Empty(t, r.Content)
	assert.Equal(t, 0, r.TotalPages)
	assert.True(t, r.First)
	assert.True(t, r.Last)
}

func TestTransactionEntry(t *testing.T) {
	on := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	tx := Transaction{
		ID:           9,
		Kind:         dashboard.Income,
		Amount:       decimal.RequireFromString("12.34"),
		OccurredOn:   on,
		CategoryID:   2,
		CategoryName: "Salary",
	}

	e := tx.Entry()
	assert.Equal(t, dashboard.Income, e.Kind)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("12.34")))
	assert.Equal(t, on, e.OccurredOn)
	assert.Equal(t, "Salary", e.Category)
}

func TestDemoTransactionsReferenceDefaultCategories(t *testing.T) {
	known := map[string]bool{}
	for _, c := range defaultCategories {
		known[c] = true
	}
	for _, d := range demoTransactions {
		assert.True(t, known[d.category], d.description)
		assert.True(t, decimal.RequireFromString(d.amount).IsPositive(), d.description)
	}
}
