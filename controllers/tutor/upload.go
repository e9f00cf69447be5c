package tutorController

import (
	"mime/multipart"

	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// UploadCourseFile pushes a course asset through the presigned upload flow
func UploadCourseFile(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	file, ok := c.Locals("uploadFile").(*multipart.FileHeader)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	req := c.Locals("validatedUpload").(*validators.UploadRequest)

	src, err := file.Open()
	if err != nil {
		logger.AppLogger.Error("failed to open uploaded file", "filename", file.Filename, "error", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read file!", nil)
	}
	defer src.Close()

	url, err := Actions.UploadCourseFile(c.UserContext(), s, src, req.Filename, req.ContentType, req.Type)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully!", fiber.Map{"url": url})
}
