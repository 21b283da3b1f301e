package services

import (
	"errors"
	"testing"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/pkg/apperrors"
)

func TestAuthorizeCourseAccess(t *testing.T) {
	course := &models.Course{ID: 10, TutorID: 7}

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{name: "admin reads any course", actor: Actor{UserID: 1, Role: models.RoleAdmin}},
		{name: "owning tutor allowed", actor: Actor{UserID: 7, Role: models.RoleTutor}},
		{name: "other tutor rejected", actor: Actor{UserID: 9, Role: models.RoleTutor}, wantErr: apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizeCourseAccess(course, tt.actor)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("authorizeCourseAccess: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
