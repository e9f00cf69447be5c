package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the student facing catalog routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	userGroup.Get("/list", validators.ListQuery(), controllers.GetAllCourses)
	userGroup.Get("/:id/reviews", validators.CourseID(), controllers.GetReviews)
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	userGroup.Post("/:id/review", middleware.JWTMiddleware, validators.CreateReview(), controllers.CreateReview)
	userGroup.Get("/:slug_or_id", validators.CourseRef(), controllers.GetCourseDetails)

	app.Get("/user/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	app.Get("/categories", controllers.GetCategories)
}
