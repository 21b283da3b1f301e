package dto

import (
	"time"

	"github.com/classforge/classforge/internal/app/draft"
	"github.com/classforge/classforge/internal/app/models"
)

// --- Authoring wizard DTOs ---

// ValidateStepRequest carries the current draft and the wizard step to
// gate. The console calls this on every Next click.
type ValidateStepRequest struct {
	Step  int         `json:"step" binding:"required,gte=1,lte=4"`
	Draft draft.Draft `json:"draft"`
}

// ValidateStepResponse reports whether the step may advance and every
// violated rule when it may not.
type ValidateStepResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// PublishCourseResponse acknowledges a submitted draft. It is returned as
// soon as the course and all of its modules are confirmed; materials are
// still uploading in the background at that point.
type PublishCourseResponse struct {
	CourseID  int64   `json:"courseId"`
	ModuleIDs []int64 `json:"moduleIds"`
	Materials int     `json:"materialsQueued"`
	Message   string  `json:"message"`
}

// --- Course CRUD DTOs ---

// CourseFilterRequest holds query filters for course listings.
type CourseFilterRequest struct {
	Status  string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Level   string `form:"level" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	TutorID int64  `form:"tutorId" binding:"omitempty,gt=0"`
	Search  string `form:"search"`
	Page    int    `form:"page,default=1" binding:"omitempty,gte=1"`
	Size    int    `form:"size,default=10" binding:"omitempty,gte=1,lte=100"`
}

// UpdateCourseRequest represents the editable course fields.
type UpdateCourseRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Description   string   `json:"description" binding:"required,min=10"`
	Level         string   `json:"level" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Duration      string   `json:"duration" binding:"omitempty,max=100"`
	IsPaid        bool     `json:"isPaid"`
	Price         float64  `json:"price" binding:"omitempty,gt=0,lte=999999"`
	Requirements  []string `json:"requirements"`
	Prerequisites []string `json:"prerequisites"`
}

// UpdateCourseStatusRequest transitions a course's lifecycle state.
type UpdateCourseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// CourseResponse represents a course in API responses.
type CourseResponse struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Level         *string          `json:"level,omitempty"`
	Duration      *string          `json:"duration,omitempty"`
	IsPaid        bool             `json:"isPaid"`
	Price         float64          `json:"price"`
	TutorID       int64            `json:"tutorId"`
	TutorName     string           `json:"tutorName,omitempty"`
	Status        string           `json:"status"`
	ThumbnailURL  *string          `json:"thumbnailUrl,omitempty"`
	Requirements  []string         `json:"requirements"`
	Prerequisites []string         `json:"prerequisites"`
	Modules       []ModuleResponse `json:"modules,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// NewCourseResponse maps a course model onto its response DTO.
func NewCourseResponse(c *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Duration:      c.Duration,
		IsPaid:        c.IsPaid,
		Price:         c.Price,
		TutorID:       c.TutorID,
		Status:        string(c.Status),
		ThumbnailURL:  c.ThumbnailURL,
		Requirements:  c.Requirements,
		Prerequisites: c.Prerequisites,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Level != nil {
		level := string(*c.Level)
		resp.Level = &level
	}
	if c.Tutor != nil {
		resp.TutorName = c.Tutor.FullName()
	}
	for i := range c.Modules {
		resp.Modules = append(resp.Modules, NewModuleResponse(&c.Modules[i]))
	}
	return resp
}

// CourseListResponse is a paginated list of courses.
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}

// --- Module DTOs ---

// CreateModuleRequest adds a module to an existing course.
type CreateModuleRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Position    int    `json:"position" binding:"omitempty,gte=1"`
}

// UpdateModuleRequest edits an existing module.
type UpdateModuleRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Position    int    `json:"position" binding:"omitempty,gte=1"`
}

// ReorderRequest carries the full new order of a container's children.
type ReorderRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}

// ModuleResponse represents a module in API responses.
type ModuleResponse struct {
	ID          int64              `json:"id"`
	CourseID    int64              `json:"courseId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Position    int                `json:"position"`
	Materials   []MaterialResponse `json:"materials,omitempty"`
}

// NewModuleResponse maps a module model onto its response DTO.
func NewModuleResponse(m *models.Module) ModuleResponse {
	resp := ModuleResponse{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Title:       m.Title,
		Description: m.Description,
		Position:    m.Position,
	}
	for i := range m.Materials {
		resp.Materials = append(resp.Materials, NewMaterialResponse(&m.Materials[i]))
	}
	return resp
}

// --- Material DTOs ---

// CreateMaterialRequest adds a material to a module after the initial
// submission, the manual re-upload path for failed background uploads.
// File-backed materials send the payload via multipart under "file".
type CreateMaterialRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"omitempty,max=2000"`
	Type        string `form:"type" binding:"required,oneof=VIDEO PDF LINK"`
	URL         string `form:"url" binding:"omitempty,url"`
	Position    int    `form:"position" binding:"omitempty,gte=1"`
}

// UpdateMaterialRequest edits material metadata.
type UpdateMaterialRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	URL         string `json:"url" binding:"omitempty,url"`
	Position    int    `json:"position" binding:"omitempty,gte=1"`
}

// MaterialResponse represents a material in API responses.
type MaterialResponse struct {
	ID          int64   `json:"id"`
	ModuleID    int64   `json:"moduleId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	Position    int     `json:"position"`
	FileURL     *string `json:"fileUrl,omitempty"`
}

// NewMaterialResponse maps a material model onto its response DTO.
func NewMaterialResponse(m *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		ModuleID:    m.ModuleID,
		Title:       m.Title,
		Description: m.Description,
		Type:        string(m.Type),
		Position:    m.Position,
		FileURL:     m.FileURL,
	}
}
