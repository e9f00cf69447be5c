package tutorController

import (
	"learnhub/middleware"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a course with its outline
func CreateCourse(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := Actions.CreateCourse(c.UserContext(), s, reqData.CourseInput, reqData.Modules)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// ListCourses lists the caller's courses
func ListCourses(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page, limit, _ := utils.Pagination(c.Query("page"), c.Query("limit"))

	courses, total, err := Actions.ListTutorCourses(c.UserContext(), s, page, limit)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// GetCourse returns one owned course with modules and lessons
func GetCourse(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	course, err := Actions.GetTutorCourse(c.UserContext(), s, courseID)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", course)
}

// UpdateCourse applies a partial update
func UpdateCourse(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedCourseUpdate").(*validators.CourseUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := Actions.UpdateCourse(c.UserContext(), s, courseID, *reqData)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// PublishCourse publishes or unpublishes a course
func PublishCourse(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	publish := c.Locals("publishStatus").(bool)

	course, err := Actions.PublishCourse(c.UserContext(), s, courseID, publish)
	if err != nil {
		return actionError(c, err)
	}
	message := "Course unpublished successfully!"
	if course.IsPublished {
		message = "Course published successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

// DeleteCourse removes a course and its outline
func DeleteCourse(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	if err := Actions.DeleteCourse(c.UserContext(), s, courseID); err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
