package services

import (
	"context"
	"mime/multipart"

	"github.com/classforge/classforge/internal/app/draft"
	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/publish"
	"github.com/classforge/classforge/internal/app/repositories"
	"github.com/classforge/classforge/internal/pkg/apperrors"
)

// CourseService hosts the authoring flow: per-step draft validation, draft
// submission and the day-to-day course CRUD around it.
type CourseService struct {
	courseRepo *repositories.CourseRepository
	userRepo   *repositories.UserRepository
	publisher  *publish.Publisher
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	publisher *publish.Publisher,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// Actor identifies who is performing an operation, for ownership and
// role checks.
type Actor struct {
	UserID int64
	Role   models.RoleType
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// authorizeCourseAccess enforces course ownership: admins touch anything,
// tutors only their own courses.
func authorizeCourseAccess(course *models.Course, actor Actor) error {
	if actor.IsAdmin() || course.TutorID == actor.UserID {
		return nil
	}
	return apperrors.NewForbiddenError("You do not own this course")
}

// ValidateDraftStep checks one wizard step of a draft and returns every
// violation found, keyed by field path. It never persists anything.
func (s *CourseService) ValidateDraftStep(d draft.Draft, step draft.Step, actor Actor) dto.ValidateStepResponse {
	if !actor.IsAdmin() {
		// Tutors author for themselves; the tutor selector is not part of
		// their wizard.
		d.TutorID = actor.UserID
	}
	errs := draft.ValidateStep(d, step, actor.IsAdmin())
	return dto.ValidateStepResponse{Valid: len(errs) == 0, Errors: errs}
}

// PublishCourse submits a finished draft. It re-runs full validation as the
// review step does, resolves and verifies the owning tutor, then hands off
// to the publisher. The returned receipt carries the persisted IDs; material
// upload continues in the background after this returns.
func (s *CourseService) PublishCourse(
	ctx context.Context,
	d draft.Draft,
	files publish.Files,
	thumbnail *multipart.FileHeader,
	actor Actor,
) (*publish.Receipt, error) {
	if !actor.IsAdmin() {
		d.TutorID = actor.UserID
	}

	if errs := draft.ValidateForSubmit(d, actor.IsAdmin()); len(errs) > 0 {
		return nil, apperrors.NewValidationError("The draft is not ready to submit", errs)
	}

	tutor, err := s.userRepo.GetByID(ctx, d.TutorID)
	if err != nil {
		return nil, err
	}
	if tutor == nil {
		return nil, apperrors.ErrTutorNotFound
	}
	if tutor.RoleType != models.RoleTutor {
		return nil, apperrors.ErrNotATutor
	}

	return s.publisher.Publish(ctx, d, files, thumbnail, actor.UserID)
}

// ListCourses returns a filtered page of courses. Tutors only see their own.
func (s *CourseService) ListCourses(ctx context.Context, req dto.CourseFilterRequest, actor Actor) (*dto.CourseListResponse, error) {
	filter := repositories.CourseFilter{
		Status:  models.CourseStatus(req.Status),
		Level:   models.CourseLevel(req.Level),
		TutorID: req.TutorID,
		Search:  req.Search,
	}
	if !actor.IsAdmin() {
		filter.TutorID = actor.UserID
	}

	courses, pagination, err := s.courseRepo.List(ctx, filter, req.Page, req.Size)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseListResponse{
		Courses:    make([]dto.CourseResponse, 0, len(courses)),
		Pagination: pagination,
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, dto.NewCourseResponse(c))
	}
	return resp, nil
}

// GetCourse returns a course with its tutor, modules and materials.
func (s *CourseService) GetCourse(ctx context.Context, id int64, actor Actor) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	if err := authorizeCourseAccess(course, actor); err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// UpdateCourse rewrites the editable course fields.
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req dto.UpdateCourseRequest, actor Actor) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	if err := authorizeCourseAccess(course, actor); err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.IsPaid = req.IsPaid
	course.Price = 0
	if req.IsPaid {
		course.Price = req.Price
	}
	course.Level = nil
	if level := models.CourseLevel(req.Level); level.Valid() {
		course.Level = &level
	}
	course.Duration = nil
	if req.Duration != "" {
		duration := req.Duration
		course.Duration = &duration
	}
	course.Requirements = req.Requirements
	if course.Requirements == nil {
		course.Requirements = []string{}
	}
	course.Prerequisites = req.Prerequisites
	if course.Prerequisites == nil {
		course.Prerequisites = []string{}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// UpdateCourseStatus transitions a course between DRAFT, PUBLISHED and
// ARCHIVED.
func (s *CourseService) UpdateCourseStatus(ctx context.Context, id int64, status models.CourseStatus, actor Actor) error {
	if !status.Valid() {
		return apperrors.NewBadRequestError("Unknown course status")
	}
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if course == nil {
		return apperrors.ErrCourseNotFound
	}
	if err := authorizeCourseAccess(course, actor); err != nil {
		return err
	}
	return s.courseRepo.UpdateStatus(ctx, id, status)
}

// DeleteCourse removes a course and everything under it. Published courses
// must be archived first.
func (s *CourseService) DeleteCourse(ctx context.Context, id int64, actor Actor) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if course == nil {
		return apperrors.ErrCourseNotFound
	}
	if err := authorizeCourseAccess(course, actor); err != nil {
		return err
	}
	if course.Status == models.CourseStatusPublished {
		return apperrors.ErrCoursePublished
	}
	return s.courseRepo.Delete(ctx, id)
}
