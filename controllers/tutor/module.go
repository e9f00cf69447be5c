package tutorController

import (
	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// AddModule appends a module to a course
func AddModule(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedModule").(*validators.ModuleInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, err := Actions.AddModuleToCourse(c.UserContext(), s, courseID, *reqData)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModule edits a module
func UpdateModule(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)
	reqData, ok := c.Locals("validatedModuleUpdate").(*validators.ModuleUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, err := Actions.UpdateModule(c.UserContext(), s, courseID, moduleID, *reqData)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule removes a module and its lessons
func DeleteModule(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	if err := Actions.RemoveModuleFromCourse(c.UserContext(), s, courseID, moduleID); err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// ReorderModules sets the module order of a course
func ReorderModules(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedReorder").(*validators.ReorderInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := Actions.ReorderModules(c.UserContext(), s, courseID, reqData.ModuleIDs); err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", nil)
}

// AddLesson appends a lesson to a module
func AddLesson(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID := c.Locals("moduleID").(uint)
	reqData, ok := c.Locals("validatedLesson").(*validators.LessonInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson, err := Actions.AddLessonToModule(c.UserContext(), s, moduleID, *reqData)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson edits a lesson
func UpdateLesson(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID := c.Locals("moduleID").(uint)
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedLessonUpdate").(*validators.LessonUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson, err := Actions.UpdateLesson(c.UserContext(), s, moduleID, lessonID, *reqData)
	if err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson removes a lesson
func DeleteLesson(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID := c.Locals("moduleID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	if err := Actions.RemoveLessonFromModule(c.UserContext(), s, moduleID, lessonID); err != nil {
		return actionError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
