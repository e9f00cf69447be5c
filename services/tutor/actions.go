package tutor

import (
	"context"
	"errors"
	"io"

	"learnhub/logger"
	"learnhub/models"
	"learnhub/realtime"
	"learnhub/services/notification"
	"learnhub/validators"

	"gorm.io/gorm"
)

var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrNotFound     = errors.New("not found")
)

// ValidationError carries the first schema issue back to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ActionError is the generic failure shown to users. Err keeps the cause for logs.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }
func (e *ActionError) Unwrap() error { return e.Err }

// Session identifies the caller of an action.
type Session struct {
	UserID uint
	Role   string
	Token  string
}

type Uploader interface {
	Upload(ctx context.Context, token string, file io.Reader, filename, contentType, kind string) (string, error)
}

// Realtime is the part of the realtime hub the actions use: room occupancy
// for logging, event publication to course rooms, and subscribing a user's
// open streams to a new course room.
type Realtime interface {
	RoomSize(room string) int
	Publish(ctx context.Context, msg realtime.Message) error
	JoinUser(ctx context.Context, userID uint, room string) error
}

// Actions is the course authoring layer used by tutor endpoints.
type Actions struct {
	db       *gorm.DB
	notifier notification.Dispatcher
	rooms    Realtime
	uploader Uploader
	log      *logger.Logger
}

func NewActions(db *gorm.DB, notifier notification.Dispatcher, rooms Realtime, uploader Uploader, log *logger.Logger) *Actions {
	return &Actions{
		db:       db,
		notifier: notifier,
		rooms:    rooms,
		uploader: uploader,
		log:      log.With("service", "TutorActions"),
	}
}

func (a *Actions) isTutor(s Session) bool {
	return s.UserID != 0 && s.Role == models.RoleTutor
}

func (a *Actions) validate(v interface{}) error {
	if err := validators.Validate(v); err != nil {
		return &ValidationError{Message: validators.FirstIssue(err)}
	}
	return nil
}

func (a *Actions) fail(msg string, err error, kv ...interface{}) error {
	a.log.Error(msg, append(kv, "error", err)...)
	return &ActionError{Message: msg, Err: err}
}

// publish sends a course room event and logs how many clients were listening.
func (a *Actions) publish(ctx context.Context, courseID uint, event string, data interface{}) {
	if a.rooms == nil {
		return
	}
	room := realtime.CourseRoom(courseID)
	a.log.Info("course room event", "room", room, "event", event, "connected_clients", a.rooms.RoomSize(room))
	if err := a.rooms.Publish(ctx, realtime.Message{Room: room, Event: event, Data: data}); err != nil {
		a.log.Warn("realtime publish failed", "room", room, "error", err)
	}
}

func (a *Actions) notifyUser(ctx context.Context, userID uint, msg notification.Message) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.NotifyUser(ctx, userID, msg); err != nil {
		a.log.Warn("user notification failed", "user_id", userID, "error", err)
	}
}

func (a *Actions) notifyRole(ctx context.Context, role string, msg notification.Message) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.NotifyRole(ctx, role, msg); err != nil {
		a.log.Warn("role notification failed", "role", role, "error", err)
	}
}

func (a *Actions) notifyCourse(ctx context.Context, courseID uint, msg notification.Message) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.NotifyCourse(ctx, courseID, msg); err != nil {
		a.log.Warn("course notification failed", "course_id", courseID, "error", err)
	}
}
