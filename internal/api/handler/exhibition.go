package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artsearch/internal/api/middleware"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/service"
)

// ExhibitionHandler exposes the current user's exhibition.
type ExhibitionHandler struct {
	exhibitions *service.ExhibitionService
}

// NewExhibitionHandler creates a new exhibition handler.
func NewExhibitionHandler(exhibitions *service.ExhibitionService) *ExhibitionHandler {
	return &ExhibitionHandler{exhibitions: exhibitions}
}

// List handles GET /exhibition.
func (h *ExhibitionHandler) List(c *gin.Context) {
	items, err := h.exhibitions.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

// Add handles POST /exhibition with a NormalizedItem body.
func (h *ExhibitionHandler) Add(c *gin.Context) {
	var item domain.NormalizedItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}

	added, err := h.exhibitions.Add(c.Request.Context(), middleware.CurrentUser(c), item)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"added": added})
}

// Remove handles DELETE /exhibition/:source/*id.
func (h *ExhibitionHandler) Remove(c *gin.Context) {
	tag := domain.SourceTag(c.Param("source"))
	removed, err := h.exhibitions.Remove(c.Request.Context(), middleware.CurrentUser(c), tag, itemIDParam(c, tag))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// Export handles POST /exhibition/export.
func (h *ExhibitionHandler) Export(c *gin.Context) {
	res, err := h.exhibitions.Export(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// itemIDParam reads the wildcard item id. Aggregator catalog ids are paths such as
// "/9200/abc", so they keep exactly one leading slash; museum ids have none.
func itemIDParam(c *gin.Context, tag domain.SourceTag) string {
	id := strings.TrimLeft(c.Param("id"), "/")
	if tag == domain.SourceEuropeana && id != "" {
		return "/" + id
	}
	return id
}
