package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/services"
	"github.com/classforge/classforge/internal/middleware"
)

// ContentController manages modules and materials of existing courses.
type ContentController struct {
	contentService *services.ContentService
	logger         zerolog.Logger
}

// NewContentController creates a new ContentController.
func NewContentController(contentService *services.ContentService, logger zerolog.Logger) *ContentController {
	return &ContentController{contentService: contentService, logger: logger}
}

// CreateModule appends a module to a course
// @Summary Add a module
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateModuleRequest true "Module fields"
// @Success 201 {object} dto.APIResponse{data=dto.ModuleResponse} "Module created"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/modules [post]
func (c *ContentController) CreateModule(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp, err := c.contentService.CreateModule(ctx.Request.Context(), courseID, req, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// ListModules returns a course's modules with materials
// @Summary List a course's modules
// @Tags content
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ModuleResponse} "Modules in order"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/modules [get]
func (c *ContentController) ListModules(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp, err := c.contentService.ListModules(ctx.Request.Context(), courseID, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// UpdateModule edits a module
// @Summary Update a module
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body dto.UpdateModuleRequest true "New module fields"
// @Success 200 {object} dto.APIResponse "Module updated"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Security BearerAuth
// @Router /modules/{id} [put]
func (c *ContentController) UpdateModule(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.contentService.UpdateModule(ctx.Request.Context(), moduleID, req, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Module updated"}})
}

// DeleteModule removes a module
// @Summary Delete a module
// @Tags content
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} dto.APIResponse "Module deleted"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Security BearerAuth
// @Router /modules/{id} [delete]
func (c *ContentController) DeleteModule(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.contentService.DeleteModule(ctx.Request.Context(), moduleID, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Module deleted"}})
}

// ReorderModules moves a course's modules into a new order
// @Summary Reorder a course's modules
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.ReorderRequest true "Module IDs in the new order"
// @Success 200 {object} dto.APIResponse "Modules reordered"
// @Failure 400 {object} dto.ErrorResponse "The order does not cover the course's modules"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/modules/order [put]
func (c *ContentController) ReorderModules(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.contentService.ReorderModules(ctx.Request.Context(), courseID, req.IDs, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Modules reordered"}})
}

// ReorderMaterials moves a module's materials into a new order
// @Summary Reorder a module's materials
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body dto.ReorderRequest true "Material IDs in the new order"
// @Success 200 {object} dto.APIResponse "Materials reordered"
// @Failure 400 {object} dto.ErrorResponse "The order does not cover the module's materials"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Security BearerAuth
// @Router /modules/{id}/materials/order [put]
func (c *ContentController) ReorderMaterials(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.contentService.ReorderMaterials(ctx.Request.Context(), moduleID, req.IDs, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Materials reordered"}})
}

// CreateMaterial adds a material to a module
// @Summary Add a material
// @Description Adds a material after the initial submission, the re-upload path the upload summary points authors to. Video and PDF payloads go in the "file" part.
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Module ID"
// @Param title formData string true "Material title"
// @Param type formData string true "Material type" Enums(VIDEO, PDF, LINK)
// @Param url formData string false "Link target, for LINK materials"
// @Param description formData string false "Material description"
// @Param file formData file false "Payload for VIDEO and PDF materials"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialResponse} "Material created"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Security BearerAuth
// @Router /modules/{id}/materials [post]
func (c *ContentController) CreateMaterial(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	// The file part is optional at the transport level; the service decides
	// whether the material type requires it.
	file, err := ctx.FormFile("file")
	if err != nil && err != http.ErrMissingFile {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	resp, err := c.contentService.CreateMaterial(ctx.Request.Context(), moduleID, req, file, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// UpdateMaterial edits a material
// @Summary Update a material
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "New material fields"
// @Success 200 {object} dto.APIResponse "Material updated"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Security BearerAuth
// @Router /materials/{id} [put]
func (c *ContentController) UpdateMaterial(ctx *gin.Context) {
	materialID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.contentService.UpdateMaterial(ctx.Request.Context(), materialID, req, nil, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Material updated"}})
}

// ReplaceMaterialFile swaps a material's stored payload
// @Summary Replace a material's file
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Material ID"
// @Param file formData file true "New payload"
// @Success 200 {object} dto.APIResponse "File replaced"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Security BearerAuth
// @Router /materials/{id}/file [put]
func (c *ContentController) ReplaceMaterialFile(ctx *gin.Context) {
	materialID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	actor := middleware.CurrentActor(ctx)
	material, err := c.contentService.GetMaterial(ctx.Request.Context(), materialID, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	req := dto.UpdateMaterialRequest{Title: material.Title}
	if material.Description != nil {
		req.Description = *material.Description
	}
	if err := c.contentService.UpdateMaterial(ctx.Request.Context(), materialID, req, file, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "File replaced"}})
}

// DeleteMaterial removes a material
// @Summary Delete a material
// @Tags content
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse "Material deleted"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Security BearerAuth
// @Router /materials/{id} [delete]
func (c *ContentController) DeleteMaterial(ctx *gin.Context) {
	materialID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	if err := c.contentService.DeleteMaterial(ctx.Request.Context(), materialID, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Material deleted"}})
}
