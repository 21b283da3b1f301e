package services

import (
	"context"
	"fmt"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/repositories"
	"github.com/classforge/classforge/internal/pkg/apperrors"
	"github.com/classforge/classforge/internal/pkg/cache"
	"github.com/classforge/classforge/internal/pkg/dberrors"
)

// StudentService manages students, enrollments and material progress.
type StudentService struct {
	userRepo       *repositories.UserRepository
	courseRepo     *repositories.CourseRepository
	enrollmentRepo *repositories.EnrollmentRepository
	materialRepo   *repositories.MaterialRepository
	cache          *cache.Cache
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	userRepo *repositories.UserRepository,
	courseRepo *repositories.CourseRepository,
	enrollmentRepo *repositories.EnrollmentRepository,
	materialRepo *repositories.MaterialRepository,
	c *cache.Cache,
) *StudentService {
	return &StudentService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		materialRepo:   materialRepo,
		cache:          c,
	}
}

// ListStudents returns a page of student accounts.
func (s *StudentService) ListStudents(ctx context.Context, page, size int) (*dto.UserListResponse, error) {
	students, pagination, err := s.userRepo.ListByRole(ctx, models.RoleStudent, page, size)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(students)),
		Pagination: pagination,
	}
	for _, st := range students {
		resp.Users = append(resp.Users, dto.NewUserResponse(st))
	}
	return resp, nil
}

// Enroll enrolls a student in a published course.
func (s *StudentService) Enroll(ctx context.Context, req dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	student, err := s.userRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrStudentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	if course.Status != models.CourseStatusPublished {
		return nil, apperrors.NewBadRequestError("Students can only enroll in published courses")
	}

	id, err := s.enrollmentRepo.Create(ctx, req.CourseID, req.StudentID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err) {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.invalidateStats(ctx, course)

	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEnrollmentResponse(enrollment)
	return &resp, nil
}

// Unenroll removes an enrollment and its progress.
func (s *StudentService) Unenroll(ctx context.Context, enrollmentID int64) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return apperrors.ErrEnrollmentNotFound
	}
	if err := s.enrollmentRepo.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	if course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID); err == nil && course != nil {
		s.invalidateStats(ctx, course)
	}
	return nil
}

// ListCourseEnrollments returns a page of a course's enrollments.
func (s *StudentService) ListCourseEnrollments(ctx context.Context, courseID int64, page, size int) (*dto.EnrollmentListResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}

	enrollments, pagination, err := s.enrollmentRepo.ListByCourse(ctx, courseID, page, size)
	if err != nil {
		return nil, err
	}

	resp := &dto.EnrollmentListResponse{
		Enrollments: make([]dto.EnrollmentResponse, 0, len(enrollments)),
		Pagination:  pagination,
	}
	for _, e := range enrollments {
		resp.Enrollments = append(resp.Enrollments, dto.NewEnrollmentResponse(e))
	}
	return resp, nil
}

// ListStudentEnrollments returns every course a student is enrolled in.
func (s *StudentService) ListStudentEnrollments(ctx context.Context, studentID int64) ([]dto.EnrollmentResponse, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrStudentNotFound
	}

	enrollments, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		resp = append(resp, dto.NewEnrollmentResponse(e))
	}
	return resp, nil
}

// RecordProgress marks a material done or not done within an enrollment.
// When every material of the course is completed the enrollment itself is
// transitioned to COMPLETED.
func (s *StudentService) RecordProgress(ctx context.Context, enrollmentID int64, req dto.RecordProgressRequest) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return apperrors.ErrEnrollmentNotFound
	}

	material, err := s.materialRepo.GetByID(ctx, req.MaterialID)
	if err != nil {
		return err
	}
	if err := checkProgressTarget(enrollment, material); err != nil {
		return err
	}

	completed := req.Completed != nil && *req.Completed
	if err := s.enrollmentRepo.RecordProgress(ctx, enrollmentID, req.MaterialID, completed); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrMaterialNotFound
		}
		return err
	}

	course, err := s.courseRepo.GetDetails(ctx, enrollment.CourseID)
	if err != nil || course == nil {
		return err
	}

	total := 0
	for _, m := range course.Modules {
		total += len(m.Materials)
	}
	done, err := s.enrollmentRepo.CountCompleted(ctx, enrollmentID)
	if err != nil {
		return err
	}

	status := models.EnrollmentActive
	if total > 0 && done >= int64(total) {
		status = models.EnrollmentCompleted
	}
	if enrollment.Status != status {
		if err := s.enrollmentRepo.UpdateStatus(ctx, enrollmentID, status); err != nil {
			return err
		}
	}

	s.invalidateStats(ctx, course)
	return nil
}

// checkProgressTarget rejects completion marks that cannot apply to the
// enrollment: dropped enrollments are closed, and the material must belong
// to the enrolled course.
func checkProgressTarget(enrollment *models.Enrollment, material *models.Material) error {
	if enrollment.Status == models.EnrollmentDropped {
		return apperrors.NewConflictError("Enrollment has been dropped")
	}
	if material == nil || material.CourseID != enrollment.CourseID {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}

// invalidateStats drops the cached analytics touched by an enrollment or
// progress change.
func (s *StudentService) invalidateStats(ctx context.Context, course *models.Course) {
	s.cache.Invalidate(ctx,
		fmt.Sprintf("stats:course:%d", course.ID),
		fmt.Sprintf("stats:tutor:%d", course.TutorID),
		"stats:platform",
	)
}
