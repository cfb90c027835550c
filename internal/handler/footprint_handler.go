package handler

import (
	"fmt"
	"math"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
	"github.com/jengzang/carbon-footprint-backend/internal/service"
	"github.com/jengzang/carbon-footprint-backend/pkg/response"
)

// FootprintHandler handles HTTP requests for emission calculations
type FootprintHandler struct {
	footprintService *service.FootprintService
}

// NewFootprintHandler creates a new footprint handler
func NewFootprintHandler(footprintService *service.FootprintService) *FootprintHandler {
	return &FootprintHandler{
		footprintService: footprintService,
	}
}

// calculateRequest is the calculator form body. Every field is required.
type calculateRequest struct {
	Km        *float64 `json:"km" binding:"required"`
	Kwh       *float64 `json:"kwh" binding:"required"`
	MeatMeals *float64 `json:"meat_meals" binding:"required"`
	Inr       *float64 `json:"inr" binding:"required"`
}

func (r calculateRequest) submission() (models.Submission, error) {
	meals := *r.MeatMeals
	if meals != math.Trunc(meals) {
		return models.Submission{}, fmt.Errorf("meat_meals must be a whole number")
	}
	return models.Submission{
		DistanceKm:       *r.Km,
		ElectricityKWh:   *r.Kwh,
		MeatMealsPerWeek: int(meals),
		SpendAmount:      *r.Inr,
	}, nil
}

func bindSubmission(c *gin.Context) (models.Submission, bool) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: km, kwh, meat_meals and inr are required numbers")
		return models.Submission{}, false
	}
	sub, err := req.submission()
	if err != nil {
		response.BadRequest(c, err.Error())
		return models.Submission{}, false
	}
	return sub, true
}

// Calculate handles POST /api/v1/calculate
func (h *FootprintHandler) Calculate(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}

	result, err := h.footprintService.Submit(c.Request.Context(), sub)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("calculation failed")
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}

// Estimate handles POST /api/v1/estimate
func (h *FootprintHandler) Estimate(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}

	result, err := h.footprintService.Estimate(sub)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}
