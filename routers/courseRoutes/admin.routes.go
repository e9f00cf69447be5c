package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the admin console routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/dashboard/stats", controllers.AdminDashboardStats)
	adminGroup.Get("/course/list", validators.ListQuery(), controllers.AdminGetAllCourses)
	adminGroup.Post("/category", validators.CreateCategory(), controllers.AdminCreateCategory)
}
