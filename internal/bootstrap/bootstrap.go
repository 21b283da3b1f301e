package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/classforge/classforge/docs" // generated swagger docs
	appControllers "github.com/classforge/classforge/internal/app/controllers"
	appMigrations "github.com/classforge/classforge/internal/app/migrations"
	"github.com/classforge/classforge/internal/app/publish"
	appRepos "github.com/classforge/classforge/internal/app/repositories"
	appRoutes "github.com/classforge/classforge/internal/app/routes"
	appServices "github.com/classforge/classforge/internal/app/services"
	"github.com/classforge/classforge/internal/config"
	"github.com/classforge/classforge/internal/db"
	appMiddleware "github.com/classforge/classforge/internal/middleware"
	pkgAuth "github.com/classforge/classforge/internal/pkg/auth"
	"github.com/classforge/classforge/internal/pkg/cache"
	"github.com/classforge/classforge/internal/pkg/filestorage"
	"github.com/classforge/classforge/internal/pkg/helpers"
	"github.com/classforge/classforge/internal/pkg/logger"
	"github.com/classforge/classforge/internal/pkg/ws"
	"github.com/classforge/classforge/internal/seed"
)

// Dependencies holds all the application dependencies.
type Dependencies struct {
	Repos *appRepos.Repositories

	AuthService      *appServices.AuthService
	CourseService    *appServices.CourseService
	ContentService   *appServices.ContentService
	TutorService     *appServices.TutorService
	StudentService   *appServices.StudentService
	AnalyticsService *appServices.AnalyticsService

	AuthController         *appControllers.AuthController
	CourseController       *appControllers.CourseController
	ContentController      *appControllers.ContentController
	TutorController        *appControllers.TutorController
	StudentController      *appControllers.StudentController
	AnalyticsController    *appControllers.AnalyticsController
	NotificationController *appControllers.NotificationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Publisher      *publish.Publisher
	Hub            *ws.Hub
	Cache          *cache.Cache
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// Missing .env is fine, configuration falls back to defaults.
	_ = godotenv.Load()

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies wires repositories, services and controllers together.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	baseURL := strings.TrimSuffix(cfg.Server.BaseURL, "/")
	fileStorageBaseURL := baseURL + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// The cache is optional: analytics degrade to uncached reads when
	// Redis is unreachable.
	deps.Cache, err = cache.New(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, analytics caching disabled")
		deps.Cache = nil
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Hub = ws.NewHub(lgr)
	go deps.Hub.Run()

	notifier := ws.NewPublishNotifier(deps.Hub, lgr)
	deps.Publisher = publish.NewPublisher(
		deps.Repos.CourseRepository,
		deps.Repos.ModuleRepository,
		deps.Repos.MaterialRepository,
		deps.FileStorage,
		deps.Repos.FileRepository,
		notifier,
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.TokenRepository, deps.JWTService)
	go deps.AuthService.RunTokenSweeper(context.Background(), time.Hour)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Repos.UserRepository, deps.Publisher)
	deps.ContentService = appServices.NewContentService(
		deps.Repos.CourseRepository,
		deps.Repos.ModuleRepository,
		deps.Repos.MaterialRepository,
		deps.Repos.FileRepository,
		deps.FileStorage,
	)
	deps.TutorService = appServices.NewTutorService(deps.Repos.UserRepository, deps.Repos.TokenRepository)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.MaterialRepository,
		deps.Cache,
	)
	deps.AnalyticsService = appServices.NewAnalyticsService(
		deps.Repos.AnalyticsRepository,
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.Cache,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.ContentController = appControllers.NewContentController(deps.ContentService, lgr)
	deps.TutorController = appControllers.NewTutorController(deps.TutorService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.AnalyticsController = appControllers.NewAnalyticsController(deps.AnalyticsService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.Hub, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.ContentController,
		deps.TutorController,
		deps.StudentController,
		deps.AnalyticsController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	return router
}
