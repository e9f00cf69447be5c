package courseValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// CourseRef accepts either a numeric id or a slug in :slug_or_id
func CourseRef() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := strings.TrimSpace(c.Params("slug_or_id"))
		if ref == "" || len(ref) > 200 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course reference!", nil)
		}
		c.Locals("courseRef", strings.ToLower(ref))
		return c.Next()
	}
}

// CreateReview validates a course review
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}

		reqData := new(validators.ReviewInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Comment = strings.TrimSpace(reqData.Comment)

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// CreateCategory validates the admin category body
func CreateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.CategoryInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Slug = strings.TrimSpace(reqData.Slug)

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

// PresignUpload validates the body of POST /api/upload. Errors use the
// {success, error} shape expected by upload clients.
func PresignUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.UploadRequest)
		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
		}
		reqData.Type = strings.ToLower(strings.TrimSpace(reqData.Type))

		if err := validators.Validate(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": validators.FirstIssue(err)})
		}

		c.Locals("validatedUpload", reqData)
		return c.Next()
	}
}
