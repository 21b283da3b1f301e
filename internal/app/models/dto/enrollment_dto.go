package dto

import (
	"time"

	"github.com/classforge/classforge/internal/app/models"
)

// EnrollRequest enrolls a student in a course.
type EnrollRequest struct {
	CourseID  int64 `json:"courseId" binding:"required,gt=0"`
	StudentID int64 `json:"studentId" binding:"required,gt=0"`
}

// EnrollmentResponse represents an enrollment in API responses.
type EnrollmentResponse struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName,omitempty"`
	CourseTitle string    `json:"courseTitle,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewEnrollmentResponse maps an enrollment model onto its response DTO.
func NewEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:        e.ID,
		CourseID:  e.CourseID,
		StudentID: e.StudentID,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
	if e.Student != nil {
		resp.StudentName = e.Student.FullName()
	}
	if e.Course != nil {
		resp.CourseTitle = e.Course.Title
	}
	return resp
}

// EnrollmentListResponse is a paginated list of enrollments.
type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// RecordProgressRequest marks a material completed or not for an enrollment.
type RecordProgressRequest struct {
	MaterialID int64 `json:"materialId" binding:"required,gt=0"`
	Completed  *bool `json:"completed" binding:"required"`
}
