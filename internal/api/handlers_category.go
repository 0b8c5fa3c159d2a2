package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const categoryNotFound = "category not found"

func (s *Server) listCategories(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	result, err := s.store.ListCategories(c.Request.Context(), currentUserID(c), page)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(result, newCategoryResponse))
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := s.store.CategoryByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.storeError(c, err, categoryNotFound)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(cat))
}

func bindCategory(c *gin.Context) (string, bool) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		abortError(c, http.StatusBadRequest, "category name is required")
		return "", false
	}
	return name, true
}

func (s *Server) createCategory(c *gin.Context) {
	name, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, err := s.store.CreateCategory(c.Request.Context(), currentUserID(c), name)
	if err != nil {
		s.storeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(cat))
}

// updateCategory renames a category. The dashboard groups by name, so the
// cached dashboard is dropped.
func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	name, ok := bindCategory(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	cat, err := s.store.UpdateCategory(c.Request.Context(), userID, id, name)
	if err != nil {
		s.storeError(c, err, categoryNotFound)
		return
	}
	s.cache.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, newCategoryResponse(cat))
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteCategory(c.Request.Context(), currentUserID(c), id); err != nil {
		s.storeError(c, err, categoryNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
