package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pbes/hscode-service/internal/api/dto"
)

// Reload handles POST /api/v1/hscode/reference/reload.
// Forces a workbook re-read; load problems surface as a 400 with a
// diagnostic message, never as a server error.
func (h *ReferenceHandler) Reload(c *gin.Context) {
	result := h.index.Reload()
	if !result.Loaded {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": result.Message,
			"rows":    result.Rows,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": result.Message,
		"rows":    result.Rows,
	})
}

// Lookup handles GET /api/v1/hscode/reference/lookup/:code.
func (h *ReferenceHandler) Lookup(c *gin.Context) {
	row := h.index.LookupByCode(c.Param("code"))
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "not_found",
			"message": "No row found for the provided HS code.",
		})
		return
	}

	c.JSON(http.StatusOK, row)
}

// Search handles POST /api/v1/hscode/reference/search.
func (h *ReferenceHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query is required.",
		})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query is required.",
		})
		return
	}

	c.JSON(http.StatusOK, h.index.Search(query, req.TopK))
}
