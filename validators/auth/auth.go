package authValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.SignupInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.LoginInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
		}

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// TutorProfile validates the tutor profile upsert body
func TutorProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.TutorProfileInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Headline = strings.TrimSpace(reqData.Headline)

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
