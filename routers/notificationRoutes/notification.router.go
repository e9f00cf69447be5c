package notificationRoutes

import (
	notificationControllers "learnhub/controllers/notification"
	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications", middleware.JWTMiddleware)

	notificationGroup.Get("/", notificationControllers.List)
	notificationGroup.Post("/read-all", notificationControllers.MarkAllRead)
	notificationGroup.Post("/:id/read", notificationControllers.MarkRead)

	app.Get("/realtime/stream", middleware.JWTMiddleware, notificationControllers.Stream)
}
