package uploadController

import (
	"errors"
	"mime/multipart"

	"learnhub/config"
	"learnhub/logger"
	"learnhub/services/storage"
	"learnhub/utils"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

var (
	// Storage issues upload targets. main sets it.
	Storage *storage.Service
	// Local verifies forms posted to the built-in receiver. Nil when uploads go to GCS.
	Local *storage.LocalPresigner
)

// Presign answers POST /api/upload with {success, url, fields}
func Presign(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}
	req := c.Locals("validatedUpload").(*validators.UploadRequest)

	post, _, err := Storage.Presign(c.UserContext(), userId, req.Filename, req.ContentType, req.Type)
	if err != nil {
		if errors.Is(err, storage.ErrContentType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		logger.AppLogger.Error("presign failed", "user_id", userId, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to prepare upload"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"url":     post.URL,
		"fields":  post.Fields,
	})
}

// Receive stores a file posted with fields issued by the local presigner
func Receive(c *fiber.Ctx) error {
	if Local == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("malformed multipart form")
	}
	fields := formFields(form)
	if err := Local.Verify(fields); err != nil {
		logger.AppLogger.Warn("rejected direct upload", "key", fields["key"], "error", err)
		return c.Status(fiber.StatusForbidden).SendString(err.Error())
	}

	files := form.File["file"]
	if len(files) != 1 {
		return c.Status(fiber.StatusBadRequest).SendString("exactly one file part is required")
	}
	file := files[0]
	if limit := config.AppConfig.UploadMaxBytes; limit > 0 && file.Size > limit {
		return c.Status(fiber.StatusRequestEntityTooLarge).SendString("file too large")
	}

	key := fields["key"]
	size, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir, key)
	if err != nil {
		logger.AppLogger.Error("failed to store upload", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to store file")
	}
	if err := Storage.MarkUploaded(c.UserContext(), key, size); err != nil {
		logger.AppLogger.Warn("upload stored without media record", "key", key, "error", err)
	}

	logger.AppLogger.Info("direct upload stored", "key", key, "size", size)
	return c.SendStatus(fiber.StatusNoContent)
}

func formFields(form *multipart.Form) map[string]string {
	fields := make(map[string]string, len(form.Value))
	for k, v := range form.Value {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}
