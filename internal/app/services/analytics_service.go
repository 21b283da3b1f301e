package services

import (
	"context"
	"fmt"
	"time"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/repositories"
	"github.com/classforge/classforge/internal/pkg/apperrors"
	"github.com/classforge/classforge/internal/pkg/cache"
)

// statsTTL bounds how stale dashboard numbers may get. Writes that change
// them also invalidate eagerly, the TTL is the backstop.
const statsTTL = 60 * time.Second

// AnalyticsService serves the dashboard aggregates through a read-through
// cache.
type AnalyticsService struct {
	analyticsRepo *repositories.AnalyticsRepository
	courseRepo    *repositories.CourseRepository
	userRepo      *repositories.UserRepository
	cache         *cache.Cache
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	analyticsRepo *repositories.AnalyticsRepository,
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	c *cache.Cache,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		cache:         c,
	}
}

// CourseStats returns enrollment numbers for one course. Tutors may only
// read stats for courses they own.
func (s *AnalyticsService) CourseStats(ctx context.Context, courseID int64, actor Actor) (*dto.CourseStatsResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	if err := authorizeCourseAccess(course, actor); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("stats:course:%d", courseID)

	var cached dto.CourseStatsResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.analyticsRepo.CourseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, apperrors.ErrCourseNotFound
	}

	s.cache.Set(ctx, key, stats, statsTTL)
	return stats, nil
}

// PlatformStats returns the admin dashboard headline numbers.
func (s *AnalyticsService) PlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	const key = "stats:platform"

	var cached dto.PlatformStatsResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.analyticsRepo.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, stats, statsTTL)
	return stats, nil
}

// TutorStats returns a tutor's dashboard numbers with the per-course
// breakdown. Tutors may only read their own dashboard.
func (s *AnalyticsService) TutorStats(ctx context.Context, tutorID int64, actor Actor) (*dto.TutorStatsResponse, error) {
	if !actor.IsAdmin() && actor.UserID != tutorID {
		return nil, apperrors.NewForbiddenError("You can only view your own dashboard")
	}

	tutor, err := s.userRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	if tutor == nil || tutor.RoleType != models.RoleTutor {
		return nil, apperrors.ErrTutorNotFound
	}

	key := fmt.Sprintf("stats:tutor:%d", tutorID)

	var cached dto.TutorStatsResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.analyticsRepo.TutorStats(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, stats, statsTTL)
	return stats, nil
}
