package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/services"
	"github.com/classforge/classforge/internal/middleware"
	"github.com/classforge/classforge/internal/pkg/helpers"
)

// TutorController manages tutor accounts.
type TutorController struct {
	tutorService *services.TutorService
	logger       zerolog.Logger
}

// NewTutorController creates a new TutorController.
func NewTutorController(tutorService *services.TutorService, logger zerolog.Logger) *TutorController {
	return &TutorController{tutorService: tutorService, logger: logger}
}

// Create provisions a tutor account
// @Summary Create a tutor
// @Tags tutors
// @Accept json
// @Produce json
// @Param request body dto.CreateTutorRequest true "Tutor account fields"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "Tutor created"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Security BearerAuth
// @Router /tutors [post]
func (c *TutorController) Create(ctx *gin.Context) {
	var req dto.CreateTutorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.tutorService.CreateTutor(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", req.Email).Msg("Tutor account created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// List returns a page of tutors
// @Summary List tutors
// @Tags tutors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Tutors"
// @Security BearerAuth
// @Router /tutors [get]
func (c *TutorController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.tutorService.ListTutors(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// ListActive returns every active tutor, for the wizard's tutor selector
// @Summary List active tutors
// @Tags tutors
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Active tutors"
// @Security BearerAuth
// @Router /tutors/active [get]
func (c *TutorController) ListActive(ctx *gin.Context) {
	resp, err := c.tutorService.ListActiveTutors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Get returns one tutor
// @Summary Get a tutor
// @Tags tutors
// @Produce json
// @Param id path int true "Tutor ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Tutor"
// @Failure 404 {object} dto.ErrorResponse "Tutor not found"
// @Security BearerAuth
// @Router /tutors/{id} [get]
func (c *TutorController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.tutorService.GetTutor(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// SetStatus activates or deactivates a tutor account
// @Summary Update tutor status
// @Tags tutors
// @Accept json
// @Produce json
// @Param id path int true "Tutor ID"
// @Param request body dto.UpdateUserStatusRequest true "Target active flag"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 404 {object} dto.ErrorResponse "Tutor not found"
// @Security BearerAuth
// @Router /tutors/{id}/status [patch]
func (c *TutorController) SetStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.tutorService.SetTutorStatus(ctx.Request.Context(), id, *req.IsActive); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Status updated"}})
}
