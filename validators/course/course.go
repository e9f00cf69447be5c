package courseValidator

import (
	"fmt"
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the body of POST /tutor/course/create
type CreateCourseRequest struct {
	validators.CourseInput
	Modules []validators.ModuleInput `json:"modules"`
}

func normalizeLesson(l *validators.LessonInput) {
	l.Title = strings.TrimSpace(l.Title)
	l.Type = strings.ToUpper(strings.TrimSpace(l.Type))
}

// normalizeModule trims a module payload and its nested lessons.
func normalizeModule(m *validators.ModuleInput) {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	for i := range m.Lessons {
		normalizeLesson(&m.Lessons[i])
	}
}

// CreateCourse validates a course with its nested modules and lessons
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		errors := make(map[string]string)
		if err := validators.Validate(reqData.CourseInput); err != nil {
			for field, msg := range validators.FieldErrors(err) {
				errors[field] = msg
			}
		}
		for i := range reqData.Modules {
			normalizeModule(&reqData.Modules[i])
			if err := validators.Validate(reqData.Modules[i]); err != nil {
				for field, msg := range validators.FieldErrors(err) {
					errors[fmt.Sprintf("modules[%d].%s", i, field)] = msg
				}
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates a partial course update
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}

		reqData := new(validators.CourseUpdateInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// PublishCourse validates course publish/unpublish request. An empty body publishes.
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}

		reqData := new(struct {
			IsPublished *bool `json:"is_published"`
		})
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		publish := true
		if reqData.IsPublished != nil {
			publish = *reqData.IsPublished
		}

		c.Locals("courseID", courseID)
		c.Locals("publishStatus", publish)
		return c.Next()
	}
}

// CreateModule validates module creation request
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}

		reqData := new(validators.ModuleInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		normalizeModule(reqData)

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// UpdateModule validates module update request
func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}
		moduleID, ok, err := idParam(c, "module_id", "Module ID")
		if !ok {
			return err
		}

		reqData := new(validators.ModuleUpdateInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

// ReorderModules validates the new module order
func ReorderModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := idParam(c, "id", "Course ID")
		if !ok {
			return err
		}

		reqData := new(validators.ReorderInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

// CreateLesson validates lesson creation request
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok, err := idParam(c, "module_id", "Module ID")
		if !ok {
			return err
		}

		reqData := new(validators.LessonInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		normalizeLesson(reqData)

		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("moduleID", moduleID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates lesson update request
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok, err := idParam(c, "module_id", "Module ID")
		if !ok {
			return err
		}
		lessonID, ok, err := idParam(c, "lesson_id", "Lesson ID")
		if !ok {
			return err
		}

		reqData := new(validators.LessonUpdateInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Type != nil {
			kind := strings.ToUpper(strings.TrimSpace(*reqData.Type))
			reqData.Type = &kind
		}
		if err := validators.Validate(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("moduleID", moduleID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// UploadFile validates the multipart course file upload
func UploadFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is required"})
		}

		kind := strings.ToLower(strings.TrimSpace(c.FormValue("type")))
		contentType := file.Header.Get("Content-Type")
		req := validators.UploadRequest{Filename: file.Filename, ContentType: contentType, Type: kind}
		if err := validators.Validate(req); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("uploadFile", file)
		c.Locals("validatedUpload", &req)
		return c.Next()
	}
}
