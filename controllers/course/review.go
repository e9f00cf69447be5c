package controllers

import (
	"errors"
	"fmt"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/notification"
	"learnhub/utils"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateReview lets an enrolled student review a course once
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedReview").(*validators.ReviewInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrolled int64
	if err := db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&enrolled).Error; err != nil {
		logger.AppLogger.Error("failed to check enrollment", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}
	if enrolled == 0 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only enrolled students can review this course!", nil)
	}

	var existing int64
	if err := db.Model(&courseModels.Review{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&existing).Error; err != nil {
		logger.AppLogger.Error("failed to check existing review", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := courseModels.Review{
		CourseID: courseID,
		UserID:   userID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}
	if err := db.Omit("User").Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
		}
		logger.AppLogger.Error("failed to create review", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	notifyCreator(c.UserContext(), course, notification.Message{
		Type:    models.NotificationNewReview,
		Title:   "New review",
		Message: fmt.Sprintf("%q received a %d star review.", course.Title, review.Rating),
		Link:    fmt.Sprintf("/tutor/courses/%d", course.ID),
		Payload: map[string]any{"review_id": review.ID, "rating": review.Rating},
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

// GetReviews pages through a course's reviews, newest first
func GetReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	page, limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))

	db := database.Database.Db
	var total int64
	if err := db.Model(&courseModels.Review{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		logger.AppLogger.Error("failed to count reviews", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	var reviews []courseModels.Review
	err := db.Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "profile_image") }).
		Where("course_id = ?", courseID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		logger.AppLogger.Error("failed to fetch reviews", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully.", fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}
