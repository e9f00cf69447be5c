package notificationController

import (
	"bufio"
	"errors"
	"strconv"
	"time"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 15 * time.Second

var (
	// Service backs the notification inbox. main sets it.
	Service *notification.Service
	// Hub serves the realtime stream. main sets it.
	Hub *realtime.Hub
)

// List returns the caller's notifications, newest first
func List(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	unreadOnly := c.QueryBool("unread", false)

	result, err := Service.List(c.UserContext(), userId, page, limit, unreadOnly)
	if err != nil {
		logger.AppLogger.Error("failed to list notifications", "user_id", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully.", result)
}

// MarkRead marks one notification as read
func MarkRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Notification ID!", nil)
	}

	if err := Service.MarkRead(c.UserContext(), userId, uint(id)); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
		}
		logger.AppLogger.Error("failed to mark notification read", "user_id", userId, "id", id, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", nil)
}

// MarkAllRead marks every unread notification of the caller as read
func MarkAllRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	n, err := Service.MarkAllRead(c.UserContext(), userId)
	if err != nil {
		logger.AppLogger.Error("failed to mark notifications read", "user_id", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications marked as read.", fiber.Map{"updated": n})
}

// StreamRooms lists the rooms a user listens to: their own room, their role
// room and one room per enrolled or authored course.
func StreamRooms(userID uint, role string) ([]string, error) {
	rooms := []string{realtime.UserRoom(userID), realtime.RoleRoom(role)}

	db := database.Database.Db
	var courseIDs []uint
	var err error
	if role == models.RoleTutor {
		err = db.Model(&courseModels.Course{}).Where("creator_id = ?", userID).Pluck("id", &courseIDs).Error
	} else {
		err = db.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID).Distinct().Pluck("course_id", &courseIDs).Error
	}
	if err != nil {
		return nil, err
	}
	for _, id := range courseIDs {
		rooms = append(rooms, realtime.CourseRoom(id))
	}
	return rooms, nil
}

// Stream is the server-sent events endpoint for realtime updates
func Stream(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	rooms, err := StreamRooms(userId, role)
	if err != nil {
		logger.AppLogger.Error("failed to resolve stream rooms", "user_id", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to open stream!", nil)
	}

	client := Hub.NewClient(userId)
	for _, room := range rooms {
		Hub.Join(client, room)
	}
	logger.AppLogger.Debug("realtime stream opened", "user_id", userId, "rooms", len(rooms))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		Hub.Stream(w, client, heartbeatInterval)
	}))
	return nil
}
