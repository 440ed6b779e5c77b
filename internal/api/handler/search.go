package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/source"
	"github.com/timmy/artsearch/internal/source/europeana"
)

// MuseumCatalog is the page-indexed catalog with object detail lookup.
type MuseumCatalog interface {
	source.PagedSource
	source.DetailSource
}

// SearchHandler exposes the single-source proxy endpoints.
type SearchHandler struct {
	vam       MuseumCatalog
	europeana source.CursorSource
}

// NewSearchHandler creates a new search handler.
// Parameters:
//   - vam: page-indexed catalog adapter.
//   - europeana: cursor-indexed catalog adapter.
//
// Returns:
//   - *SearchHandler: initialized handler.
func NewSearchHandler(vam MuseumCatalog, europeana source.CursorSource) *SearchHandler {
	return &SearchHandler{vam: vam, europeana: europeana}
}

// SearchARequest is the body of POST /search/a.
type SearchARequest struct {
	Query   string `json:"query"`
	MakerID string `json:"makerId"`
	Page    int    `json:"page"`
}

// SearchAResponse is the result of POST /search/a.
type SearchAResponse struct {
	Items        []domain.NormalizedItem `json:"items"`
	TotalRecords int                     `json:"totalRecords"`
	TotalImages  int                     `json:"totalImages"`
}

// SearchBRequest is the body of POST /search/b.
type SearchBRequest struct {
	Query  string `json:"query"`
	Cursor string `json:"cursor"`
}

// SearchBResponse is the result of POST /search/b. NextCursor is null once the result set is exhausted.
type SearchBResponse struct {
	Items        []domain.NormalizedItem `json:"items"`
	TotalRecords int                     `json:"totalRecords"`
	TotalImages  int                     `json:"totalImages"`
	ScannedCount int                     `json:"scannedCount"`
	NextCursor   *string                 `json:"nextCursor"`
}

// SearchA handles POST /search/a.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *SearchHandler) SearchA(c *gin.Context) {
	var req SearchARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	res, err := h.vam.FetchPage(c.Request.Context(), source.PageQuery{
		Query:   req.Query,
		MakerID: req.MakerID,
		Page:    req.Page,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchAResponse{
		Items:        res.Items,
		TotalRecords: res.TotalRecords,
		TotalImages:  res.TotalImages,
	})
}

// SearchB handles POST /search/b.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *SearchHandler) SearchB(c *gin.Context) {
	var req SearchBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	res, err := h.europeana.FetchFiltered(c.Request.Context(), source.CursorQuery{
		Query:  req.Query,
		Cursor: req.Cursor,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := SearchBResponse{
		Items:        res.Items,
		TotalRecords: res.TotalRecords,
		TotalImages:  res.TotalImages,
		ScannedCount: res.ScannedCount,
	}
	if res.NextCursor != "" {
		resp.NextCursor = &res.NextCursor
	}
	c.JSON(http.StatusOK, resp)
}

// ItemA handles GET|POST /item/a/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *SearchHandler) ItemA(c *gin.Context) {
	item, err := h.vam.FetchDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ItemB handles POST /item/b. The aggregator catalog has no detail API, so the
// client posts the item from its search results and gets the full record back.
func (h *SearchHandler) ItemB(c *gin.Context) {
	var item domain.NormalizedItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(item.ID) == "" {
		respondError(c, domain.ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, europeana.ExpandDetail(item))
}
