package tutorRoutes

import (
	tutorControllers "learnhub/controllers/tutor"
	"learnhub/middleware"
	"learnhub/models"
	authValidators "learnhub/validators/auth"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupTutorRoutes sets up the course authoring routes
func SetupTutorRoutes(app *fiber.App) {
	tutorGroup := app.Group("/tutor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTutor))

	tutorGroup.Post("/profile", authValidators.TutorProfile(), tutorControllers.UpsertProfile)
	tutorGroup.Get("/profile", tutorControllers.GetProfile)

	courseGroup := tutorGroup.Group("/course")
	courseGroup.Post("/create", validators.CreateCourse(), tutorControllers.CreateCourse)
	courseGroup.Post("/upload", validators.UploadFile(), tutorControllers.UploadCourseFile)
	courseGroup.Get("/list", tutorControllers.ListCourses)
	courseGroup.Get("/:id", validators.CourseID(), tutorControllers.GetCourse)
	courseGroup.Put("/:id", validators.UpdateCourse(), tutorControllers.UpdateCourse)
	courseGroup.Delete("/:id", validators.CourseID(), tutorControllers.DeleteCourse)
	courseGroup.Post("/:id/publish", validators.PublishCourse(), tutorControllers.PublishCourse)

	// Module Management
	courseGroup.Post("/:id/module", validators.CreateModule(), tutorControllers.AddModule)
	courseGroup.Put("/:id/module/:module_id", validators.UpdateModule(), tutorControllers.UpdateModule)
	courseGroup.Delete("/:id/module/:module_id", validators.CourseID(), validators.ModuleID(), tutorControllers.DeleteModule)
	courseGroup.Put("/:id/modules/reorder", validators.ReorderModules(), tutorControllers.ReorderModules)

	// Lesson Management
	moduleGroup := tutorGroup.Group("/module")
	moduleGroup.Post("/:module_id/lesson", validators.CreateLesson(), tutorControllers.AddLesson)
	moduleGroup.Put("/:module_id/lesson/:lesson_id", validators.UpdateLesson(), tutorControllers.UpdateLesson)
	moduleGroup.Delete("/:module_id/lesson/:lesson_id", validators.ModuleID(), validators.LessonID(), tutorControllers.DeleteLesson)
}
