package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/ledger"
)

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// storeError maps ledger errors onto HTTP statuses. Anything unexpected is
// logged and reported as a 500 without details.
func (s *Server) storeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		abortError(c, http.StatusNotFound, notFound)
	case errors.Is(err, ledger.ErrDuplicateCategory),
		errors.Is(err, ledger.ErrDuplicateEmail),
		errors.Is(err, ledger.ErrCategoryInUse):
		abortError(c, http.StatusConflict, err.Error())
	default:
		s.log.Error().Err(err).
			Str("request_id", c.GetString(requestIDHeader)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		abortError(c, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
