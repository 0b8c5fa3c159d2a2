package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/dashboard"
	"finance-tracker-backend/internal/ledger"
)

const transactionNotFound = "transaction not found"

var (
	minAmount = decimal.New(1, -2)
	// largest value NUMERIC(14,2) holds
	maxAmount = decimal.RequireFromString("999999999999.99")
)

// Exponent bounds checked before any comparison. Comparing rescales both
// operands to a common exponent, so "1e20000000" would expand to millions of digits.
const (
	minAmountExponent = -20
	maxAmountExponent = 12
)

// parseTransaction validates a request body into ledger input.
func parseTransaction(req TransactionRequest) (ledger.TransactionInput, string) {
	kind, ok := dashboard.ParseKind(req.Type)
	if !ok {
		return ledger.TransactionInput{}, "invalid transaction type, use 'INCOME' or 'EXPENSE'"
	}
	exp := req.Value.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent || req.Value.GreaterThan(maxAmount) {
		return ledger.TransactionInput{}, "value must be between 0.01 and " + maxAmount.StringFixed(2)
	}
	if req.Value.LessThan(minAmount) {
		return ledger.TransactionInput{}, "value must be at least 0.01"
	}
	if !req.Value.Equal(req.Value.Round(2)) {
		return ledger.TransactionInput{}, "value must have at most two decimal places"
	}
	on, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return ledger.TransactionInput{}, "date must be formatted as YYYY-MM-DD"
	}
	return ledger.TransactionInput{
		Kind:        kind,
		Amount:      req.Value,
		Description: strings.TrimSpace(req.Description),
		OccurredOn:  on,
		CategoryID:  req.CategoryID,
	}, ""
}

func bindTransaction(c *gin.Context) (ledger.TransactionInput, bool) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return ledger.TransactionInput{}, false
	}
	in, msg := parseTransaction(req)
	if msg != "" {
		abortError(c, http.StatusBadRequest, msg)
		return ledger.TransactionInput{}, false
	}
	return in, true
}

// transactionFilter reads the optional listing filters. type=todos (all) is
// the same as no type filter.
func transactionFilter(c *gin.Context) (ledger.TransactionFilter, bool) {
	var q struct {
		Type       string `form:"type"`
		CategoryID int64  `form:"categoryId"`
		StartDate  string `form:"startDate"`
		EndDate    string `form:"endDate"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		abortError(c, http.StatusBadRequest, "invalid filter parameters")
		return ledger.TransactionFilter{}, false
	}

	var f ledger.TransactionFilter
	if q.Type != "" && !strings.EqualFold(q.Type, "todos") && !strings.EqualFold(q.Type, "all") {
		kind, ok := dashboard.ParseKind(q.Type)
		if !ok {
			abortError(c, http.StatusBadRequest, "invalid transaction type: "+q.Type)
			return ledger.TransactionFilter{}, false
		}
		f.Kind = kind
	}
	f.CategoryID = q.CategoryID

	for _, d := range []struct {
		raw string
		dst *time.Time
	}{{q.StartDate, &f.StartDate}, {q.EndDate, &f.EndDate}} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, d.raw)
		if err != nil {
			abortError(c, http.StatusBadRequest, "dates must be formatted as YYYY-MM-DD")
			return ledger.TransactionFilter{}, false
		}
		*d.dst = t
	}
	return f, true
}

func (s *Server) listTransactions(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	filter, ok := transactionFilter(c)
	if !ok {
		return
	}
	result, err := s.store.ListTransactions(c.Request.Context(), currentUserID(c), filter, page)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(result, newTransactionResponse))
}

func (s *Server) getTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := s.store.TransactionByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.storeError(c, err, transactionNotFound)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(t))
}

// createTransaction creates a new transaction
func (s *Server) createTransaction(c *gin.Context) {
	in, ok := bindTransaction(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	t, err := s.store.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		s.storeError(c, err, categoryNotFound)
		return
	}

	s.cache.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, newTransactionResponse(t))
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := bindTransaction(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	t, err := s.store.UpdateTransaction(c.Request.Context(), userID, id, in)
	if err != nil {
		s.storeError(c, err, "transaction or category not found")
		return
	}

	s.cache.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, newTransactionResponse(t))
}

// deleteTransaction removes a transaction by ID
func (s *Server) deleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	if err := s.store.DeleteTransaction(c.Request.Context(), userID, id); err != nil {
		s.storeError(c, err, transactionNotFound)
		return
	}

	s.cache.Invalidate(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}
