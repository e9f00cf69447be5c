package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	"learnhub/middleware"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Get("/login-history", middleware.JWTMiddleware, authControllers.LoginHistory)
}
