package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/repositories"
	"github.com/classforge/classforge/internal/config"
	"github.com/classforge/classforge/internal/pkg/auth"
)

// defaultAdminEmail is used when no ADMIN_EMAIL is configured.
const defaultAdminEmail = "admin@classforge.io"

// CreateDefaultData provisions the initial admin account if no admin
// exists yet. The password comes from ADMIN_PASSWORD; a throwaway default
// is used in development.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	count, err := userRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		lgr.Debug().Msg("Admin account present, skipping seed")
		return nil
	}

	email := config.GetEnv("ADMIN_EMAIL", defaultAdminEmail)
	password := config.GetEnv("ADMIN_PASSWORD", "changeme-now")

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Platform",
		LastName:  "Admin",
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	}
	if _, err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
