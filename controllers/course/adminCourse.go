package controllers

import (
	"errors"
	"strings"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminGetAllCourses lists every course, drafts included
func AdminGetAllCourses(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedList").(*courseValidator.ListParams)
	if reqData == nil {
		reqData = &courseValidator.ListParams{}
	}
	page, limit, offset := utils.Pagination(itoa(reqData.Page), itoa(reqData.Limit))

	db := database.Database.Db
	query := db.Model(&courseModels.Course{})
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}
	if reqData.Search != "" {
		query = query.Where("title LIKE ?", "%"+reqData.Search+"%")
	}

	var total int64
	query.Session(&gorm.Session{}).Count(&total)

	var courses []courseModels.Course
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		logger.AppLogger.Error("failed to fetch admin courses", "error", err)
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

// AdminCreateCategory adds a catalog category
func AdminCreateCategory(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCategory").(*validators.CategoryInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	slug := strings.ToLower(reqData.Slug)
	if slug == "" {
		slug = utils.Slugify(reqData.Name)
	}
	if slug == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"slug": "slug could not be derived from name"})
	}

	db := database.Database.Db
	var existing models.Category
	err := db.Unscoped().Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.AppLogger.Error("category lookup failed", "slug", slug, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	category := models.Category{Name: reqData.Name, Slug: slug}
	if err := db.Create(&category).Error; err != nil {
		logger.AppLogger.Error("failed to create category", "slug", slug, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}
