package services

import (
	"context"
	"errors"
	"testing"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/pkg/apperrors"
)

func TestTutorStatsScopedToOwnDashboard(t *testing.T) {
	// The ownership check runs before any repository or cache access.
	svc := NewAnalyticsService(nil, nil, nil, nil)

	_, err := svc.TutorStats(context.Background(), 9, Actor{UserID: 7, Role: models.RoleTutor})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want permission denied", err)
	}
}
