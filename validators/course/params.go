package courseValidator

import (
	"strconv"
	"strings"

	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// idParam reads a positive numeric route parameter. On failure it has already
// written the error response and ok is false.
func idParam(c *fiber.Ctx, name, label string) (id uint, ok bool, err error) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
	}
	n, convErr := strconv.ParseUint(raw, 10, 64)
	if convErr != nil || n == 0 {
		return 0, false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}
	return uint(n), true, nil
}

// CourseID parses :id into Locals("courseID")
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// ModuleID parses :module_id into Locals("moduleID")
func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok, err := idParam(c, "module_id", "Module ID")
		if !ok {
			return err
		}
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// LessonID parses :lesson_id into Locals("lessonID")
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok, err := idParam(c, "lesson_id", "Lesson ID")
		if !ok {
			return err
		}
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// ListQuery parses page/limit/search/category/level/status query values
func ListQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListParams)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page < 0 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit < 0 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Search = strings.TrimSpace(reqData.Search)
		reqData.Category = strings.TrimSpace(reqData.Category)
		reqData.Level = strings.ToUpper(strings.TrimSpace(reqData.Level))
		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// ListParams are the query values accepted by list endpoints
type ListParams struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Search   string `query:"search"`
	Category string `query:"category"`
	Level    string `query:"level"`
	Status   string `query:"status"`
}
