package api

import (
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/dashboard"
	"finance-tracker-backend/internal/ledger"
)

const dateLayout = "2006-01-02"

// money renders amounts with exactly two decimals, as a JSON string so no
// client parses them into a float on the way in.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newUserResponse(u ledger.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCategoryResponse(c ledger.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// TransactionRequest is the body of create and update calls. Value accepts a
// JSON number or string and is decoded without going through float64.
type TransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description" binding:"max=500"`
	Date        string          `json:"date" binding:"required"`
	CategoryID  int64           `json:"categoryId" binding:"required"`
}

type TransactionResponse struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Value        string    `json:"value"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newTransactionResponse(t ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		Type:         string(t.Kind),
		Value:        money(t.Amount),
		Description:  t.Description,
		Date:         t.OccurredOn.Format(dateLayout),
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func newPageResponse[S, T any](p ledger.PageResult[S], conv func(S) T) PageResponse[T] {
	content := make([]T, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, conv(item))
	}
	return PageResponse[T]{
		Content:       content,
		Page:          p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}

type SummaryResponse struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Balance  string `json:"balance"`
}

type CategoryDataResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type MonthlyDataResponse struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type DashboardResponse struct {
	Summary      SummaryResponse        `json:"summary"`
	CategoryData []CategoryDataResponse `json:"categoryData"`
	MonthlyData  []MonthlyDataResponse  `json:"monthlyData"`
}

func newDashboardResponse(snap dashboard.Snapshot) DashboardResponse {
	resp := DashboardResponse{
		Summary: SummaryResponse{
			Income:   money(snap.Summary.Income),
			Expenses: money(snap.Summary.Expenses),
			Balance:  money(snap.Summary.Balance),
		},
		CategoryData: make([]CategoryDataResponse, 0, len(snap.Categories)),
		MonthlyData:  make([]MonthlyDataResponse, 0, len(snap.Daily)),
	}
	for _, c := range snap.Categories {
		resp.CategoryData = append(resp.CategoryData, CategoryDataResponse{Name: c.Name, Value: money(c.Total)})
	}
	for _, p := range snap.Daily {
		resp.MonthlyData = append(resp.MonthlyData, MonthlyDataResponse{Date: p.Label, Value: money(p.Balance)})
	}
	return resp
}
