package handlers

import (
	"net/http"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/observability"
	"go-akashdhara/internal/session"

	"github.com/gin-gonic/gin"
)

type selectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type chatRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CreateSession starts a viewer session with today selected
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.Sessions.Create()
	today, _ := h.parseDate("")
	sess.View.Select(today)

	observability.LoggerFromContext(c.Request.Context()).Info("session started", "session_id", sess.ID)
	c.JSON(http.StatusCreated, domain.SuccessResponse(sess.Snapshot()))
}

// GetSession returns the session snapshot; fetches in flight show as pending
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(sess.Snapshot()))
}

// SelectDate starts a new generation of fetches for the requested date
func (h *Handler) SelectDate(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req selectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	date, err := domain.ParseDate(req.Date, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}

	sess.View.Select(date)
	c.JSON(http.StatusAccepted, domain.SuccessResponse(sess.Snapshot()))
}

// ToggleSelection adds or removes a mission from the comparison selection
func (h *Handler) ToggleSelection(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id := c.Param("missionId")
	if _, ok := h.Catalog.Mission(id); !ok {
		notFound(c, "mission not found")
		return
	}

	changed := sess.ToggleSelection(id)
	snap := sess.Snapshot()
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"changed":     changed,
		"selection":   snap.Selection,
		"can_compare": snap.CanCompare,
	}))
}

// ClearSelection empties the comparison selection
func (h *Handler) ClearSelection(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.ClearSelection()
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"selection":   sess.Selection(),
		"can_compare": false,
	}))
}

// CompareSelection compares the session's selected missions
func (h *Handler) CompareSelection(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	cmp, err := sess.Compare(h.Catalog, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(cmp))
}

// SendChat appends the user's message and the assistant's reply
func (h *Handler) SendChat(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	reply, err := sess.Conversation.Send(c.Request.Context(), h.Chat, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(reply))
}

// GetChat returns the session's conversation
func (h *Handler) GetChat(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"messages": sess.Conversation.Messages(),
	}))
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sess, true
}
