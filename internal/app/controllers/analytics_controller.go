package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/services"
	"github.com/classforge/classforge/internal/middleware"
)

// AnalyticsController serves the dashboard aggregates.
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
	logger           zerolog.Logger
}

// NewAnalyticsController creates a new AnalyticsController.
func NewAnalyticsController(analyticsService *services.AnalyticsService, logger zerolog.Logger) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService, logger: logger}
}

// CourseStats returns enrollment numbers for one course
// @Summary Course statistics
// @Tags analytics
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseStatsResponse} "Course stats"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /analytics/courses/{id} [get]
func (c *AnalyticsController) CourseStats(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.analyticsService.CourseStats(ctx.Request.Context(), id, middleware.CurrentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// PlatformStats returns the admin dashboard headline numbers
// @Summary Platform statistics
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PlatformStatsResponse} "Platform stats"
// @Security BearerAuth
// @Router /analytics/platform [get]
func (c *AnalyticsController) PlatformStats(ctx *gin.Context) {
	resp, err := c.analyticsService.PlatformStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// TutorStats returns a tutor's dashboard numbers
// @Summary Tutor statistics
// @Tags analytics
// @Produce json
// @Param id path int true "Tutor ID"
// @Success 200 {object} dto.APIResponse{data=dto.TutorStatsResponse} "Tutor stats"
// @Failure 403 {object} dto.ErrorResponse "Not the tutor's own dashboard"
// @Failure 404 {object} dto.ErrorResponse "Tutor not found"
// @Security BearerAuth
// @Router /analytics/tutors/{id} [get]
func (c *AnalyticsController) TutorStats(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.analyticsService.TutorStats(ctx.Request.Context(), id, middleware.CurrentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
