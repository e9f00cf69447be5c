package controllers

import (
	"time"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminDashboardStats aggregates platform figures for the admin console
func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalCourses, publishedCourses, totalEnrollments, completedEnrollments, totalReviews, uploadedMedia int64

	counts := []*gorm.DB{
		db.Model(&courseModels.Course{}).Count(&totalCourses),
		db.Model(&courseModels.Course{}).Where("is_published = ?", true).Count(&publishedCourses),
		db.Model(&courseModels.Enrollment{}).Count(&totalEnrollments),
		db.Model(&courseModels.Enrollment{}).Where("status = ?", "COMPLETED").Count(&completedEnrollments),
		db.Model(&courseModels.Review{}).Count(&totalReviews),
		db.Model(&models.MediaAsset{}).Where("status = ?", models.MediaStatusUploaded).Count(&uploadedMedia),
	}
	for _, res := range counts {
		if res.Error != nil {
			return dashboardFailed(c, res.Error)
		}
	}

	type roleCount struct {
		Role  string `json:"role"`
		Count int64  `json:"count"`
	}
	var roles []roleCount
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error; err != nil {
		return dashboardFailed(c, err)
	}
	usersByRole := make(map[string]int64, len(roles))
	for _, r := range roles {
		usersByRole[r.Role] = r.Count
	}

	type RecentEnrollment struct {
		UserName   string    `json:"user_name"`
		CourseName string    `json:"course_name"`
		EnrolledAt time.Time `json:"enrolled_at"`
	}

	var recent []RecentEnrollment
	err := db.Model(&courseModels.Enrollment{}).
		Select("users.name AS user_name, courses.title AS course_name, enrollments.created_at AS enrolled_at").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.created_at desc").
		Limit(5).
		Scan(&recent).Error
	if err != nil {
		return dashboardFailed(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_courses":         totalCourses,
			"published_courses":     publishedCourses,
			"total_enrollments":     totalEnrollments,
			"completed_enrollments": completedEnrollments,
			"total_reviews":         totalReviews,
			"uploaded_media":        uploadedMedia,
			"users_by_role":         usersByRole,
		},
		"recent_enrollments": recent,
	})
}

func dashboardFailed(c *fiber.Ctx, err error) error {
	logger.AppLogger.Error("failed to build dashboard stats", "error", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
}
