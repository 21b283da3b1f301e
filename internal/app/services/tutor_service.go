package services

import (
	"context"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/repositories"
	"github.com/classforge/classforge/internal/pkg/apperrors"
	"github.com/classforge/classforge/internal/pkg/auth"
	"github.com/classforge/classforge/internal/pkg/dberrors"
	"github.com/classforge/classforge/internal/pkg/logger"
)

// TutorService manages tutor accounts, an admin-only surface.
type TutorService struct {
	userRepo  *repositories.UserRepository
	tokenRepo *repositories.TokenRepository
}

// NewTutorService creates a new TutorService.
func NewTutorService(userRepo *repositories.UserRepository, tokenRepo *repositories.TokenRepository) *TutorService {
	return &TutorService{userRepo: userRepo, tokenRepo: tokenRepo}
}

// CreateTutor provisions a tutor account.
func (s *TutorService) CreateTutor(ctx context.Context, req dto.CreateTutorRequest) (*dto.UserResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  models.RoleTutor,
		IsActive:  true,
	}
	if req.Bio != "" {
		bio := req.Bio
		user.Bio = &bio
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, err
	}
	user.ID = id

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ListTutors returns a page of tutor accounts.
func (s *TutorService) ListTutors(ctx context.Context, page, size int) (*dto.UserListResponse, error) {
	tutors, pagination, err := s.userRepo.ListByRole(ctx, models.RoleTutor, page, size)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(tutors)),
		Pagination: pagination,
	}
	for _, t := range tutors {
		resp.Users = append(resp.Users, dto.NewUserResponse(t))
	}
	return resp, nil
}

// ListActiveTutors returns every active tutor, used to populate the tutor
// selector in the authoring wizard.
func (s *TutorService) ListActiveTutors(ctx context.Context) ([]dto.UserResponse, error) {
	tutors, err := s.userRepo.ListActiveByRole(ctx, models.RoleTutor)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.UserResponse, 0, len(tutors))
	for _, t := range tutors {
		resp = append(resp, dto.NewUserResponse(t))
	}
	return resp, nil
}

// GetTutor returns one tutor account.
func (s *TutorService) GetTutor(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RoleType != models.RoleTutor {
		return nil, apperrors.ErrTutorNotFound
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// SetTutorStatus activates or deactivates a tutor account.
func (s *TutorService) SetTutorStatus(ctx context.Context, id int64, active bool) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil || user.RoleType != models.RoleTutor {
		return apperrors.ErrTutorNotFound
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	// Deactivation also ends the tutor's open sessions.
	if !active {
		if err := s.tokenRepo.DeleteForUser(ctx, id); err != nil {
			logger.Warn().Err(err).Int64("userID", id).Msg("Could not revoke sessions of a deactivated tutor")
		}
	}
	return nil
}
