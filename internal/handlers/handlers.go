// Package handlers provides HTTP request handlers
package handlers

import (
	"errors"
	"net/http"
	"time"

	"go-akashdhara/internal/catalog"
	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/services"
	"go-akashdhara/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler holds all service dependencies
type Handler struct {
	Space    *services.SpaceService
	Chat     *services.ChatService
	Catalog  *catalog.KnowledgeBase
	Sessions *session.Store

	loc *time.Location
	now func() time.Time
}

// NewHandler creates a new handler with services. Dates in requests are
// interpreted in loc.
func NewHandler(space *services.SpaceService, chat *services.ChatService, kb *catalog.KnowledgeBase, sessions *session.Store, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		Space:    space,
		Chat:     chat,
		Catalog:  kb,
		Sessions: sessions,
		loc:      loc,
		now:      time.Now,
	}
}

// Health handles health check requests
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Health{
		Status: "ok",
		Now:    h.now().UTC(),
	})
}

// ChatSuggestions lists the starter questions
func (h *Handler) ChatSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"suggestions": services.Suggestions(),
	}))
}

// SetupRoutes configures all routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	// Health check
	r.GET("/health", h.Health)

	// Daily image and timeline
	r.GET("/apod", h.GetApod)
	r.GET("/apod/range", h.GetApodRange)
	r.GET("/timeline", h.GetTimeline)
	r.GET("/day", h.GetDay)
	r.GET("/events/:monthDay", h.GetEvents)

	// Mission catalog
	r.GET("/missions", h.ListMissions)
	r.GET("/missions/facets", h.MissionFacets)
	r.GET("/missions/:id", h.GetMission)
	r.POST("/missions/compare", h.CompareMissions)

	// Viewer sessions
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.POST("/sessions/:id/date", h.SelectDate)
	r.POST("/sessions/:id/selection/:missionId", h.ToggleSelection)
	r.DELETE("/sessions/:id/selection", h.ClearSelection)
	r.GET("/sessions/:id/compare", h.CompareSelection)
	r.POST("/sessions/:id/chat", h.SendChat)
	r.GET("/sessions/:id/chat", h.GetChat)

	r.GET("/chat/suggestions", h.ChatSuggestions)
}

// parseDate reads an optional YYYY-MM-DD value, defaulting to today
func (h *Handler) parseDate(value string) (time.Time, error) {
	if value == "" {
		return domain.StartOfDay(h.now().In(h.loc)), nil
	}
	return domain.ParseDate(value, h.loc)
}

// respondError writes err in the response envelope. Client mistakes get a
// 4xx status; upstream failures keep 200 and carry the details in the body.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) {
		notFound(c, err.Error())
		return
	}
	status := http.StatusOK
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		status = http.StatusBadRequest
	}
	c.JSON(status, domain.ErrorResponseFrom(err))
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, domain.ErrorResponse("NOT_FOUND", message))
}

func bindError(err error) error {
	return &domain.ValidationError{Field: "request", Message: err.Error()}
}
