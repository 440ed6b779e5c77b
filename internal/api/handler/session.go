package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/logger"
	"github.com/timmy/artsearch/internal/service"
)

// SessionHandler exposes the federated search sessions.
type SessionHandler struct {
	sessions *service.SessionManager
}

// NewSessionHandler creates a new session handler.
// Parameters:
//   - sessions: registry of live search sessions.
//
// Returns:
//   - *SessionHandler: initialized handler.
func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Query           string `json:"query"`
	MakerID         string `json:"makerId"`
	SourceSelection string `json:"sourceSelection"`
}

// SessionResponse wraps a state snapshot with the flattened, ordered item list.
type SessionResponse struct {
	SessionID string                  `json:"sessionId"`
	State     domain.SearchState      `json:"state"`
	Items     []domain.NormalizedItem `json:"items"`
	Noop      bool                    `json:"noop,omitempty"`
}

func newSessionResponse(id string, st domain.SearchState, onlyWithImages bool) SessionResponse {
	return SessionResponse{SessionID: id, State: st, Items: st.Items(onlyWithImages)}
}

// Create handles POST /sessions: it opens a session and runs the first search.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	selection, err := domain.ParseSourceSelection(req.SourceSelection)
	if err != nil {
		respondError(c, err)
		return
	}

	id, sess := h.sessions.Create()
	ctx := logger.SetSessionID(c.Request.Context(), id)

	st, err := sess.NewSearch(ctx, service.SearchParams{
		Query:   req.Query,
		MakerID: req.MakerID,
		Sources: selection,
	})
	if err != nil {
		_ = h.sessions.Delete(id)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(id, st, false))
}

// Search handles POST /sessions/:id/search: a new search within an existing session.
func (h *SessionHandler) Search(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	selection, err := domain.ParseSourceSelection(req.SourceSelection)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := logger.SetSessionID(c.Request.Context(), id)
	st, err := sess.NewSearch(ctx, service.SearchParams{
		Query:   req.Query,
		MakerID: req.MakerID,
		Sources: selection,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(id, st, false))
}

// More handles POST /sessions/:id/more.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response; noop is true when nothing was fetched).
func (h *SessionHandler) More(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := logger.SetSessionID(c.Request.Context(), id)
	st, ran := sess.LoadMore(ctx)

	resp := newSessionResponse(id, st, false)
	resp.Noop = !ran
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /sessions/:id?only_with_images=true.
func (h *SessionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	onlyWithImages := false
	if raw := c.Query("only_with_images"); raw != "" {
		onlyWithImages, err = strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, newSessionResponse(id, sess.Snapshot(), onlyWithImages))
}

// Delete handles DELETE /sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
