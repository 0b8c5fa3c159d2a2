// Package dashboard turns a user's transaction history into the figures shown
// on the dashboard: lifetime totals, expenses per category and the running
// balance of the current month.
//
// Everything here is pure. Callers fetch the entries and pass today's date in.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction.
type Kind string

const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

// ParseKind accepts either kind regardless of case.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, true
	case Expense:
		return Expense, true
	}
	return "", false
}

// Sign applies the kind's sign to amount: income adds, expense subtracts.
func (k Kind) Sign(amount decimal.Decimal) decimal.Decimal {
	switch k {
	case Income:
		return amount
	case Expense:
		return amount.Neg()
	}
	panic(unknownKind(k))
}

func unknownKind(k Kind) string {
	return fmt.Sprintf("dashboard: unknown transaction kind %q", string(k))
}

// Entry is the slice of a transaction the engine needs.
type Entry struct {
	Kind       Kind
	Amount     decimal.Decimal
	OccurredOn time.Time
	Category   string
}

type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// DailyPoint is the running balance at the end of one day.
type DailyPoint struct {
	Day     time.Time
	Label   string
	Balance decimal.Decimal
}

// Snapshot is the full dashboard for one user at one date.
type Snapshot struct {
	Summary    Summary
	Categories []CategoryTotal
	Daily      []DailyPoint
}

// Compute builds the snapshot for entries as seen on today.
//
// Entries must belong to a single user and carry a known kind and a
// non-negative amount; anything else panics.
func Compute(entries []Entry, today time.Time) Snapshot {
	for _, e := range entries {
		if e.Amount.IsNegative() {
			panic(fmt.Sprintf("dashboard: negative amount %s", e.Amount))
		}
	}
	return Snapshot{
		Summary:    summarize(entries),
		Categories: expensesByCategory(entries),
		Daily:      dailySeries(entries, DateOf(today)),
	}
}

func summarize(entries []Entry) Summary {
	income, expenses := decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case Income:
			income = income.Add(e.Amount)
		case Expense:
			expenses = expenses.Add(e.Amount)
		default:
			panic(unknownKind(e.Kind))
		}
	}
	return Summary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}

// expensesByCategory groups on the category name, so two categories sharing a
// name are reported together.
func expensesByCategory(entries []Entry) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Kind != Expense {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func dailySeries(entries []Entry, today time.Time) []DailyPoint {
	monthStart, monthEnd := MonthBounds(today)

	initial := decimal.Zero
	perDay := make(map[time.Time]decimal.Decimal)
	var lastActivity time.Time
	for _, e := range entries {
		day := DateOf(e.OccurredOn)
		switch {
		case day.Before(monthStart):
			initial = initial.Add(e.Kind.Sign(e.Amount))
		case !day.After(monthEnd):
			perDay[day] = perDay[day].Add(e.Kind.Sign(e.Amount))
			if day.After(lastActivity) {
				lastActivity = day
			}
		}
	}

	points := make([]DailyPoint, 0)
	if len(perDay) == 0 {
		return points
	}

	windowEnd := lastActivity
	if windowEnd.After(today) {
		windowEnd = today
	}
	if windowEnd.Before(monthStart) {
		return points
	}

	days := DaysBetween(monthStart, windowEnd) + 1
	running := initial
	day := monthStart
	for i := 0; i < days; i++ {
		running = running.Add(perDay[day])
		points = append(points, DailyPoint{Day: day, Label: Label(day), Balance: running})
		day = day.AddDate(0, 0, 1)
	}
	return points
}
