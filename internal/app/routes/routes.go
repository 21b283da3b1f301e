package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classforge/classforge/internal/app/controllers"
	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/middleware"
)

// SetupRouter configures all application routes.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	contentController *controllers.ContentController,
	tutorController *controllers.TutorController,
	studentController *controllers.StudentController,
	analyticsController *controllers.AnalyticsController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/profile", authController.Profile)

		authenticated.GET("/notifications/ws", notificationController.Subscribe)

		// The authoring surface belongs to staff: admins author for any
		// tutor, tutors for themselves.
		staff := authenticated.Group("")
		staff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTutor))
		{
			courses := staff.Group("/courses")
			{
				courses.POST("/draft/validate", courseController.ValidateStep)
				courses.POST("", courseController.Publish)
				courses.GET("", courseController.List)
				courses.GET("/:id", courseController.Get)
				courses.PUT("/:id", courseController.Update)
				courses.PATCH("/:id/status", courseController.UpdateStatus)
				courses.DELETE("/:id", courseController.Delete)

				courses.GET("/:id/modules", contentController.ListModules)
				courses.POST("/:id/modules", contentController.CreateModule)
				courses.PUT("/:id/modules/order", contentController.ReorderModules)
				courses.GET("/:id/enrollments", studentController.CourseEnrollments)
			}

			modules := staff.Group("/modules")
			{
				modules.PUT("/:id", contentController.UpdateModule)
				modules.DELETE("/:id", contentController.DeleteModule)
				modules.POST("/:id/materials", contentController.CreateMaterial)
				modules.PUT("/:id/materials/order", contentController.ReorderMaterials)
			}

			materials := staff.Group("/materials")
			{
				materials.PUT("/:id", contentController.UpdateMaterial)
				materials.PUT("/:id/file", contentController.ReplaceMaterialFile)
				materials.DELETE("/:id", contentController.DeleteMaterial)
			}

			staff.GET("/tutors/active", tutorController.ListActive)
			staff.GET("/analytics/courses/:id", analyticsController.CourseStats)
			staff.GET("/analytics/tutors/:id", analyticsController.TutorStats)
		}

		// --- Admin-only routes ---
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			tutors := admin.Group("/tutors")
			{
				tutors.POST("", tutorController.Create)
				tutors.GET("", tutorController.List)
				tutors.GET("/:id", tutorController.Get)
				tutors.PATCH("/:id/status", tutorController.SetStatus)
			}

			students := admin.Group("/students")
			{
				students.GET("", studentController.List)
				students.GET("/:id/enrollments", studentController.StudentEnrollments)
			}

			enrollments := admin.Group("/enrollments")
			{
				enrollments.POST("", studentController.Enroll)
				enrollments.DELETE("/:id", studentController.Unenroll)
				enrollments.POST("/:id/progress", studentController.RecordProgress)
			}

			admin.GET("/analytics/platform", analyticsController.PlatformStats)
		}
	}
}
