package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (public; a token only unlocks episode URLs on the detail page)
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/categories", controllers.GetCategories)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment (free courses; paid courses enroll through the payment webhook)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Episode completion
	courseGroup.Post("/episode/:episode_id/complete", middleware.JWTMiddleware, validators.MarkEpisodeComplete(), controllers.MarkEpisodeComplete)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetUserProgress)

	// Certificate issuance for a completed course
	courseGroup.Post("/:course_id/certificate", middleware.JWTMiddleware, validators.RequestCertificate(), controllers.GenerateCertificate)

	// User enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public certificate verification, the page a scanned QR code lands on
	app.Get("/certificate/verify/:number", validators.VerifyCertificate(), controllers.VerifyCertificate)
}
