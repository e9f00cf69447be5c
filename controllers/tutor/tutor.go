package tutorController

import (
	"errors"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/services/tutor"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Actions is the authoring layer used by every tutor handler. main sets it.
var Actions *tutor.Actions

func session(c *fiber.Ctx) (tutor.Session, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return tutor.Session{}, false
	}
	role, _ := c.Locals("role").(string)
	token, _ := c.Locals("token").(string)
	return tutor.Session{UserID: userID, Role: role, Token: token}, true
}

// actionError maps authoring errors onto the response envelope.
func actionError(c *fiber.Ctx, err error) error {
	var verr *tutor.ValidationError
	var aerr *tutor.ActionError
	switch {
	case errors.Is(err, tutor.ErrUnauthorized):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized", nil)
	case errors.Is(err, tutor.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	case errors.As(err, &verr):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, verr.Message, nil)
	case errors.As(err, &aerr):
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, aerr.Message, nil)
	default:
		logger.AppLogger.Error("unexpected tutor action error", "path", c.Path(), "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// UpsertProfile creates or updates the caller's tutor profile
func UpsertProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*validators.TutorProfileInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var profile models.TutorProfile
	err := db.Where("user_id = ?", userId).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.AppLogger.Error("failed to load tutor profile", "user_id", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save profile!", nil)
	}

	profile.UserID = userId
	profile.Headline = reqData.Headline
	profile.Bio = reqData.Bio
	profile.Expertise = reqData.Expertise
	profile.HourlyRate = reqData.HourlyRate

	if err := db.Omit("User").Save(&profile).Error; err != nil {
		logger.AppLogger.Error("failed to save tutor profile", "user_id", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile saved successfully!", profile)
}

// GetProfile returns the caller's tutor profile
func GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var profile models.TutorProfile
	if err := database.Database.Db.Preload("User").Where("user_id = ?", userId).First(&profile).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tutor profile not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", profile)
}
