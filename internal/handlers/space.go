package handlers

import (
	"net/http"
	"time"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/services"

	"github.com/gin-gonic/gin"
)

type dateQuery struct {
	Date string `form:"date"`
}

type rangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// GetApod handles requests for the daily image of a date
func (h *Handler) GetApod(c *gin.Context) {
	date, ok := h.bindDate(c)
	if !ok {
		return
	}
	image, err := h.Space.ResolveDailyImage(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(image))
}

// GetApodRange handles requests for every daily image in a date range
func (h *Handler) GetApodRange(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return
	}
	start, err := domain.ParseDate(q.Start, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := domain.ParseDate(q.End, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}

	images, err := h.Space.ResolveImageRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"start":  domain.FormatDate(start),
		"end":    domain.FormatDate(end),
		"images": images,
	}))
}

// GetTimeline handles requests for launches and historical events of a date
func (h *Handler) GetTimeline(c *gin.Context) {
	date, ok := h.bindDate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(h.Space.ResolveTimeline(c.Request.Context(), date)))
}

// GetDay handles requests for everything shown for a date
func (h *Handler) GetDay(c *gin.Context) {
	date, ok := h.bindDate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(h.Space.ResolveDay(c.Request.Context(), date)))
}

// GetEvents handles requests for the historical events of a month-day
func (h *Handler) GetEvents(c *gin.Context) {
	monthDay := c.Param("monthDay")
	// 2000 is a leap year, so 02-29 is accepted.
	if _, err := time.Parse(domain.DateLayout, "2000-"+monthDay); err != nil {
		respondError(c, &domain.ValidationError{
			Field:   "monthDay",
			Message: "Invalid month-day \"" + monthDay + "\". Expected MM-DD.",
		})
		return
	}

	events := services.HistoricalEvents(h.Catalog, monthDay, h.now().In(h.loc).Year())
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"monthDay": monthDay,
		"events":   events,
	}))
}

func (h *Handler) bindDate(c *gin.Context) (time.Time, bool) {
	var q dateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return time.Time{}, false
	}
	date, err := h.parseDate(q.Date)
	if err != nil {
		respondError(c, err)
		return time.Time{}, false
	}
	return date, true
}
