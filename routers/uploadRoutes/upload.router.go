package uploadRoutes

import (
	uploadControllers "learnhub/controllers/upload"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupUploadRoutes registers the presign endpoint and the local receiver.
// uploadDir is served read-only under /uploads.
func SetupUploadRoutes(app *fiber.App, uploadDir string) {
	app.Post("/api/upload", middleware.JWTMiddleware, validators.PresignUpload(), uploadControllers.Presign)
	app.Post("/uploads", uploadControllers.Receive)
	app.Static("/uploads", uploadDir)
}
