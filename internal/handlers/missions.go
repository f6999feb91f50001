package handlers

import (
	"net/http"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/missions"

	"github.com/gin-gonic/gin"
)

type missionQuery struct {
	Search    string   `form:"search"`
	Countries []string `form:"country"`
	Types     []string `form:"type"`
	Statuses  []string `form:"status"`
	StartYear int      `form:"start" binding:"omitempty,min=1900,max=2100"`
	EndYear   int      `form:"end" binding:"omitempty,min=1900,max=2100"`
	Sort      string   `form:"sort"`
	Order     string   `form:"order"`
}

type compareRequest struct {
	IDs []string `json:"ids" binding:"required,min=2,max=3,dive,required"`
}

// ListMissions handles filtered, searched and ordered catalog requests
func (h *Handler) ListMissions(c *gin.Context) {
	var mq missionQuery
	if err := c.ShouldBindQuery(&mq); err != nil {
		respondError(c, bindError(err))
		return
	}
	q, err := missions.ParseQuery(missions.Params{
		Search:    mq.Search,
		Countries: mq.Countries,
		Types:     mq.Types,
		Statuses:  mq.Statuses,
		StartYear: mq.StartYear,
		EndYear:   mq.EndYear,
		Sort:      mq.Sort,
		Order:     mq.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	list := missions.Apply(h.Catalog.Missions(), q)
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"query":    q,
		"missions": list,
		"stats":    missions.ComputeStats(list),
	}))
}

// MissionFacets lists the values each filter dimension can take
func (h *Handler) MissionFacets(c *gin.Context) {
	c.JSON(http.StatusOK, domain.SuccessResponse(gin.H{
		"countries":    h.Catalog.Countries(),
		"missionTypes": h.Catalog.MissionTypes(),
		"statuses":     h.Catalog.Statuses(),
		"dateRange":    missions.DefaultFilterSpec().DateRange,
	}))
}

// GetMission handles single mission requests
func (h *Handler) GetMission(c *gin.Context) {
	m, ok := h.Catalog.Mission(c.Param("id"))
	if !ok {
		notFound(c, "mission not found")
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(m))
}

// CompareMissions compares the missions named in the request body
func (h *Handler) CompareMissions(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	selected := make([]domain.Mission, 0, len(req.IDs))
	for _, id := range req.IDs {
		m, ok := h.Catalog.Mission(id)
		if !ok {
			notFound(c, "mission not found: "+id)
			return
		}
		selected = append(selected, m)
	}

	cmp, err := missions.Compare(selected, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SuccessResponse(cmp))
}
