package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course management routes for admins
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireAdmin)

	// Categories
	adminGroup.Post("/category", validators.CategoryBody(), controllers.CreateCategory)

	// Courses
	adminGroup.Post("/course", validators.CourseBody(), controllers.CreateCourse)
	adminGroup.Put("/course/:id", validators.GetCourseDetail(), validators.CourseBody(), controllers.UpdateCourse)
	adminGroup.Patch("/course/:id/status", validators.CourseStatus(), controllers.SetCourseStatus)
	adminGroup.Delete("/course/:id", validators.GetCourseDetail(), controllers.DeleteCourse)

	// Episodes
	adminGroup.Post("/course/:course_id/episode", validators.EpisodeBody(), controllers.CreateEpisode)
	adminGroup.Put("/course/:course_id/episode/:episode_id", validators.EpisodeParams(), validators.EpisodeBody(), controllers.UpdateEpisode)
	adminGroup.Delete("/course/:course_id/episode/:episode_id", validators.EpisodeParams(), controllers.DeleteEpisode)

	// Certificates
	adminGroup.Get("/certificates", controllers.AdminListCertificates)
	adminGroup.Delete("/certificate/:id", validators.CertificateID(), controllers.AdminDeleteCertificate)
}
