package controllers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/draft"
	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/publish"
	"github.com/classforge/classforge/internal/app/services"
	"github.com/classforge/classforge/internal/middleware"
)

// materialPartPrefix keys the multipart file parts of a submission to the
// draft materials they belong to: part "material_<id>" carries the upload
// bound to the draft material with that client ID.
const materialPartPrefix = "material_"

// CourseController hosts the authoring wizard endpoints and course CRUD.
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{courseService: courseService, logger: logger}
}

// ValidateStep gates one wizard step
// @Summary Validate a draft step
// @Description Checks one step of the authoring wizard against the current draft and returns every violated rule. Nothing is persisted.
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.ValidateStepRequest true "Step number and current draft"
// @Success 200 {object} dto.APIResponse{data=dto.ValidateStepResponse} "Validation outcome"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Security BearerAuth
// @Router /courses/draft/validate [post]
func (c *CourseController) ValidateStep(ctx *gin.Context) {
	var req dto.ValidateStepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp := c.courseService.ValidateDraftStep(req.Draft, draft.Step(req.Step), actor)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Publish submits a finished draft
// @Summary Submit a course draft
// @Description Creates the course and its modules, then returns. Materials upload in the background; a notification reports the outcome when they finish.
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param draft formData string true "Draft as JSON"
// @Param thumbnail formData file false "Course thumbnail"
// @Success 201 {object} dto.APIResponse{data=dto.PublishCourseResponse} "Course and modules created, materials uploading"
// @Failure 400 {object} dto.ErrorResponse "Draft failed validation"
// @Failure 502 {object} dto.ErrorResponse "A module could not be created"
// @Security BearerAuth
// @Router /courses [post]
func (c *CourseController) Publish(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	payload := ctx.PostForm("draft")
	if payload == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Missing draft").
			WithDetails("The submission must carry the draft JSON in the 'draft' form field")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var d draft.Draft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Malformed draft").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	files := make(publish.Files)
	var thumbnail *multipart.FileHeader
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		switch {
		case name == "thumbnail":
			thumbnail = headers[0]
		case strings.HasPrefix(name, materialPartPrefix):
			files[strings.TrimPrefix(name, materialPartPrefix)] = headers[0]
		}
	}

	actor := middleware.CurrentActor(ctx)
	receipt, err := c.courseService.PublishCourse(ctx.Request.Context(), d, files, thumbnail, actor)
	if err != nil {
		var chapterErr *publish.ChapterError
		if errors.As(err, &chapterErr) {
			c.logger.Error().Err(err).Msg("Module creation failed during submission")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, chapterErr.Error()).
				WithSeverity(dto.ErrorSeverityError)
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(errorDetail))
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.PublishCourseResponse{
		CourseID:  receipt.CourseID,
		ModuleIDs: receipt.ModuleIDs,
		Materials: d.MaterialCount(),
		Message:   "Course created, materials are uploading",
	}})
}

// List returns a filtered course page
// @Summary List courses
// @Tags courses
// @Produce json
// @Param status query string false "Filter by status" Enums(DRAFT, PUBLISHED, ARCHIVED)
// @Param level query string false "Filter by level" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param tutorId query int false "Filter by tutor"
// @Param search query string false "Title substring search"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses"
// @Security BearerAuth
// @Router /courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	var req dto.CourseFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp, err := c.courseService.ListCourses(ctx.Request.Context(), req, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Get returns one course with its content
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course with modules and materials"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp, err := c.courseService.GetCourse(ctx.Request.Context(), id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Update rewrites a course's editable fields
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "New course fields"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Updated course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, req, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// UpdateStatus transitions a course's lifecycle state
// @Summary Update course status
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/status [patch]
func (c *CourseController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.courseService.UpdateCourseStatus(ctx.Request.Context(), id, models.CourseStatus(req.Status), actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Status updated"}})
}

// Delete removes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course is published"
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Course deleted"}})
}

// pathID parses a numeric path parameter, responding with 400 on garbage.
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
