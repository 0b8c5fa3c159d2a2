package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/ledger"
)

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "finance-tracker",
	})
}

// register creates an account and signs the new user in.
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		abortError(c, http.StatusBadRequest, "name is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	user, err := s.store.CreateUser(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	s.respondWithToken(c, http.StatusCreated, user)
}

// login exchanges email and password for a token.
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.UserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		s.storeError(c, err, "")
		return
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		abortError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.respondWithToken(c, http.StatusOK, user)
}

func (s *Server) respondWithToken(c *gin.Context, status int, user ledger.User) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: newUserResponse(user)})
}

// currentUser returns the authenticated user's profile.
func (s *Server) currentUser(c *gin.Context) {
	user, err := s.store.UserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.storeError(c, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// pageParams reads ?page= and ?size=; the ledger clamps them.
func pageParams(c *gin.Context) (ledger.Page, bool) {
	var q struct {
		Page int `form:"page"`
		Size int `form:"size"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		abortError(c, http.StatusBadRequest, "invalid paging parameters")
		return ledger.Page{}, false
	}
	return ledger.Page{Number: q.Page, Size: q.Size}.Normalize(), true
}
