package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/carbon-footprint-backend/internal/service"
	"github.com/jengzang/carbon-footprint-backend/pkg/response"
)

// StatsHandler handles HTTP requests for statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetSubmissionStatistics handles GET /api/v1/admin/stats
func (h *StatsHandler) GetSubmissionStatistics(c *gin.Context) {
	stats, err := h.statsService.GetSubmissionStatistics(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, stats)
}
