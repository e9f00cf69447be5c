package controllers

import (
	"context"
	"errors"
	"fmt"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/notification"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const enrollmentEnrolled = "ENROLLED"

// RoomJoiner subscribes a user's open realtime streams to a room.
type RoomJoiner interface {
	JoinUser(ctx context.Context, userID uint, room string) error
}

// Rooms puts a new student's open streams into the course room. main sets it.
var Rooms RoomJoiner

func notifyCreator(ctx context.Context, course courseModels.Course, msg notification.Message) {
	if Notifier == nil {
		return
	}
	courseID := course.ID
	msg.CourseID = &courseID
	if err := Notifier.NotifyUser(ctx, course.CreatorID, msg); err != nil {
		logger.AppLogger.Warn("creator notification failed", "course_id", course.ID, "error", err)
	}
}

func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}
	if course.CreatorID == userID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot enroll in your own course!", nil)
	}

	var existing int64
	if err := db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&existing).Error; err != nil {
		logger.AppLogger.Error("failed to check enrollment", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   enrollmentEnrolled,
	}
	if err := db.Omit("Course").Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		logger.AppLogger.Error("failed to enroll", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	if Rooms != nil {
		if err := Rooms.JoinUser(c.UserContext(), userID, realtime.CourseRoom(courseID)); err != nil {
			logger.AppLogger.Warn("failed to join student to course room", "user_id", userID, "course_id", courseID, "error", err)
		}
	}

	var student models.User
	if err := db.Select("id", "name").First(&student, userID).Error; err != nil {
		logger.AppLogger.Warn("failed to load enrolling student", "user_id", userID, "error", err)
		student.Name = "A student"
	}
	notifyCreator(c.UserContext(), course, notification.Message{
		Type:    models.NotificationNewEnrollment,
		Title:   "New enrollment",
		Message: fmt.Sprintf("%s enrolled in %q.", student.Name, course.Title),
		Link:    fmt.Sprintf("/tutor/courses/%d", course.ID),
		Payload: map[string]any{"student_id": userID},
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page, limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))

	db := database.Database.Db
	var total int64
	if err := db.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.AppLogger.Error("failed to count enrollments", "user_id", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").Where("user_id = ?", userID).Order("created_at desc").Offset(offset).Limit(limit).Find(&enrollments).Error; err != nil {
		logger.AppLogger.Error("failed to fetch enrollments", "user_id", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}
