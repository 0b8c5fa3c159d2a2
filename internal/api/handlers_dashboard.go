package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/dashboard"
)

// getDashboard serves the user's dashboard, computing it from the full
// history on a cache miss. The generation is read before the history so a
// write landing mid-computation leaves the result under a stale generation.
func (s *Server) getDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	today := dashboard.DateOf(s.today())

	var resp DashboardResponse
	gen, cacheable := s.cache.Generation(ctx, userID)
	if cacheable && s.cache.Get(ctx, userID, gen, today, &resp) {
		c.JSON(http.StatusOK, resp)
		return
	}

	txs, err := s.store.AllTransactionsForUser(ctx, userID)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	entries := make([]dashboard.Entry, 0, len(txs))
	for _, t := range txs {
		entries = append(entries, t.Entry())
	}

	resp = newDashboardResponse(dashboard.Compute(entries, today))
	if cacheable {
		s.cache.Set(ctx, userID, gen, today, resp)
	}

	s.log.Debug().Int64("user_id", userID).Int("transactions", len(entries)).
		Int("days", len(resp.MonthlyData)).Msg("Dashboard computed")
	c.JSON(http.StatusOK, resp)
}
