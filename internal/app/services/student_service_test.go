package services

import (
	"errors"
	"testing"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/pkg/apperrors"
)

func TestCheckProgressTarget(t *testing.T) {
	tests := []struct {
		name     string
		status   models.EnrollmentStatus
		material *models.Material
		wantErr  error
	}{
		{
			name:     "material in the enrolled course",
			status:   models.EnrollmentActive,
			material: &models.Material{ID: 5, CourseID: 10},
		},
		{
			name:     "material from another course rejected",
			status:   models.EnrollmentActive,
			material: &models.Material{ID: 5, CourseID: 11},
			wantErr:  apperrors.ErrMaterialNotFound,
		},
		{
			name:    "unknown material rejected",
			status:  models.EnrollmentActive,
			wantErr: apperrors.ErrMaterialNotFound,
		},
		{
			name:     "dropped enrollment stays closed",
			status:   models.EnrollmentDropped,
			material: &models.Material{ID: 5, CourseID: 10},
			wantErr:  apperrors.ErrConflict,
		},
		{
			name:     "completed enrollment may still record marks",
			status:   models.EnrollmentCompleted,
			material: &models.Material{ID: 5, CourseID: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollment := &models.Enrollment{ID: 1, CourseID: 10, Status: tt.status}
			err := checkProgressTarget(enrollment, tt.material)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("checkProgressTarget: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
