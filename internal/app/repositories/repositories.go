package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	CourseRepository     *CourseRepository
	ModuleRepository     *ModuleRepository
	MaterialRepository   *MaterialRepository
	EnrollmentRepository *EnrollmentRepository
	AnalyticsRepository  *AnalyticsRepository
	FileRepository       *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		CourseRepository:     NewCourseRepository(db),
		ModuleRepository:     NewModuleRepository(db),
		MaterialRepository:   NewMaterialRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		AnalyticsRepository:  NewAnalyticsRepository(db),
		FileRepository:       NewFileRepository(db),
	}
}
