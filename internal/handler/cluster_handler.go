package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/carbon-footprint-backend/internal/analysis"
	"github.com/jengzang/carbon-footprint-backend/internal/service"
	"github.com/jengzang/carbon-footprint-backend/pkg/response"
)

// ClusterHandler handles HTTP requests for clustering results
type ClusterHandler struct {
	clusterService *service.ClusterService
}

// NewClusterHandler creates a new cluster handler
func NewClusterHandler(clusterService *service.ClusterService) *ClusterHandler {
	return &ClusterHandler{
		clusterService: clusterService,
	}
}

// GetPlot handles GET /api/v1/cluster-plot
func (h *ClusterHandler) GetPlot(c *gin.Context) {
	path, err := h.clusterService.PlotPath()
	if errors.Is(err, service.ErrPlotNotFound) {
		response.NotFound(c, "cluster_plot.png does not exist")
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.FileAttachment(path, "cluster_plot.png")
}

// GetLatest handles GET /api/v1/clusters/latest
func (h *ClusterHandler) GetLatest(c *gin.Context) {
	run, err := h.clusterService.Latest(c.Request.Context())
	if errors.Is(err, service.ErrNoRuns) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, run)
}

// ListRuns handles GET /api/v1/admin/clusters/runs
func (h *ClusterHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	runs, err := h.clusterService.Runs(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"runs": runs, "count": len(runs)})
}

// Recompute handles POST /api/v1/admin/clusters/recompute
func (h *ClusterHandler) Recompute(c *gin.Context) {
	result, err := h.clusterService.Recompute(c.Request.Context())
	if errors.Is(err, analysis.ErrNoData) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("recompute failed")
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"k":          result.K,
		"labels":     result.Labels,
		"summaries":  result.Summaries,
		"stats":      result.Stats,
		"inertia":    result.Inertia,
		"iterations": result.Iterations,
	})
}
