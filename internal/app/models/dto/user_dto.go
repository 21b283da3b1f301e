package dto

import (
	"time"

	"github.com/classforge/classforge/internal/app/models"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          int64      `json:"id" example:"1"`
	Email       string     `json:"email" example:"jane@classforge.io"`
	FirstName   string     `json:"firstName" example:"Jane"`
	LastName    string     `json:"lastName" example:"Doe"`
	RoleType    string     `json:"roleType" example:"TUTOR"`
	IsActive    bool       `json:"isActive" example:"true"`
	Bio         *string    `json:"bio,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewUserResponse maps a user model onto its response DTO.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		RoleType:    string(u.RoleType),
		IsActive:    u.IsActive,
		Bio:         u.Bio,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UserListResponse is a paginated list of users.
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// CreateTutorRequest represents the data needed to register a tutor account.
type CreateTutorRequest struct {
	Email     string `json:"email" binding:"required,email" example:"tutor@classforge.io"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,min=2,max=100" example:"Jane"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100" example:"Doe"`
	Bio       string `json:"bio,omitempty" binding:"omitempty,max=2000"`
}

// UpdateUserStatusRequest toggles an account's active flag.
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
