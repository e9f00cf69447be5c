package controllers

import (
	"errors"
	"strconv"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/notification"
	"learnhub/utils"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Notifier delivers enrollment and review notifications. main sets it.
var Notifier notification.Dispatcher

// CourseSummary is a catalog row with aggregate figures
type CourseSummary struct {
	courseModels.Course
	EnrollmentCount int64   `json:"enrollment_count"`
	AverageRating   float64 `json:"average_rating"`
	ReviewCount     int64   `json:"review_count"`
}

type courseStats struct {
	CourseID uint
	Count    int64
	Average  float64
}

// attachStats loads enrollment and review aggregates for courses in two queries.
func attachStats(db *gorm.DB, courses []courseModels.Course) ([]CourseSummary, error) {
	out := make([]CourseSummary, len(courses))
	if len(courses) == 0 {
		return out, nil
	}
	ids := make([]uint, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
		out[i].Course = course
	}

	var enrollments []courseStats
	if err := db.Model(&courseModels.Enrollment{}).
		Select("course_id, COUNT(*) AS count").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&enrollments).Error; err != nil {
		return nil, err
	}
	var reviews []courseStats
	if err := db.Model(&courseModels.Review{}).
		Select("course_id, COUNT(*) AS count, AVG(rating) AS average").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&reviews).Error; err != nil {
		return nil, err
	}

	index := make(map[uint]int, len(out))
	for i := range out {
		index[out[i].ID] = i
	}
	for _, e := range enrollments {
		out[index[e.CourseID]].EnrollmentCount = e.Count
	}
	for _, r := range reviews {
		i := index[r.CourseID]
		out[i].ReviewCount = r.Count
		out[i].AverageRating = r.Average
	}
	return out, nil
}

func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// GetAllCourses lists published courses with search, category and level filters
func GetAllCourses(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedList").(*courseValidator.ListParams)
	if reqData == nil {
		reqData = &courseValidator.ListParams{}
	}
	page, limit, offset := utils.Pagination(itoa(reqData.Page), itoa(reqData.Limit))

	db := database.Database.Db
	query := db.Model(&courseModels.Course{}).Where("is_published = ?", true)
	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		query = query.Where("title LIKE ? OR short_description LIKE ?", like, like)
	}
	if reqData.Category != "" {
		if id, err := strconv.ParseUint(reqData.Category, 10, 64); err == nil {
			query = query.Where("category_id = ?", id)
		} else {
			query = query.Where("category_id IN (?)", db.Model(&models.Category{}).Select("id").Where("slug = ?", reqData.Category))
		}
	}
	if reqData.Level != "" {
		query = query.Where("level = ?", reqData.Level)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.AppLogger.Error("failed to count courses", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []courseModels.Course
	if err := query.Preload("Tags").Order("published_at desc").Order("id desc").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		logger.AppLogger.Error("failed to fetch courses", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	summaries, err := attachStats(db, courses)
	if err != nil {
		logger.AppLogger.Error("failed to load course stats", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": summaries,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// GetCourseDetails returns a published course by slug or id. Lesson bodies
// are only included for preview lessons.
func GetCourseDetails(c *fiber.Ctx) error {
	ref := c.Locals("courseRef").(string)

	db := database.Database.Db
	query := db.Preload("Tags").
		Preload("Modules", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order asc, id asc") }).
		Preload("Modules.Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_published = ?", true).Order("sort_order asc, id asc")
		}).
		Where("is_published = ?", true)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", ref)
	}

	var course courseModels.Course
	if err := query.First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	for i := range course.Modules {
		for j := range course.Modules[i].Lessons {
			lesson := &course.Modules[i].Lessons[j]
			if !lesson.IsPreview {
				lesson.Content = ""
				lesson.VideoURL = ""
			}
		}
	}

	summaries, err := attachStats(db, []courseModels.Course{course})
	if err != nil {
		logger.AppLogger.Error("failed to load course stats", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var tutor models.TutorProfile
	if err := db.Preload("User").First(&tutor, course.TutorID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.AppLogger.Error("failed to load course tutor", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", fiber.Map{
		"course": summaries[0],
		"tutor": fiber.Map{
			"name":     tutor.User.Name,
			"headline": tutor.Headline,
			"bio":      tutor.Bio,
		},
	})
}

// GetCategories lists every category
func GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.Database.Db.Order("name asc").Find(&categories).Error; err != nil {
		logger.AppLogger.Error("failed to fetch categories", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully.", categories)
}
