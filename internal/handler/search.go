package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"settlr/internal/model"
	"settlr/internal/service"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.Query == "" && req.Filters == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: query or filters required"})
		return
	}

	if req.Options != nil {
		switch req.Options.Sort {
		case "", model.SortNewest, model.SortRentAsc, model.SortRentDesc, model.SortRelevance:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort. Must be one of: newest, rent_asc, rent_desc, relevance"})
			return
		}
	}

	response, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, response)
}
