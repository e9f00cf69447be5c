package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"learnhub/logger"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/mail"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const fanoutBatchSize = 200

// Message is the content of one notification, independent of its audience.
type Message struct {
	Type     string
	Title    string
	Message  string
	Link     string
	CourseID *uint
	Payload  map[string]any
}

// Dispatcher delivers in-app notifications to a user, a role, or a course audience.
type Dispatcher interface {
	NotifyUser(ctx context.Context, userID uint, msg Message) error
	NotifyRole(ctx context.Context, role string, msg Message) error
	NotifyCourse(ctx context.Context, courseID uint, msg Message) error
}

// Publisher is the slice of the realtime hub the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, msg realtime.Message) error
}

type Service struct {
	db      *gorm.DB
	hub     Publisher
	mailer  mail.Mailer
	appName string
	log     *logger.Logger
}

// NewService builds a dispatcher. mailer may be nil to disable email copies.
func NewService(db *gorm.DB, hub Publisher, mailer mail.Mailer, appName string, log *logger.Logger) *Service {
	return &Service{
		db:      db,
		hub:     hub,
		mailer:  mailer,
		appName: appName,
		log:     log.With("service", "NotificationService"),
	}
}

var _ Dispatcher = (*Service)(nil)

func (s *Service) row(userID uint, msg Message) (models.Notification, error) {
	n := models.Notification{
		UserID:   userID,
		Type:     msg.Type,
		Title:    msg.Title,
		Message:  msg.Message,
		Link:     msg.Link,
		CourseID: msg.CourseID,
	}
	if len(msg.Payload) > 0 {
		raw, err := json.Marshal(msg.Payload)
		if err != nil {
			return n, fmt.Errorf("encode payload: %w", err)
		}
		n.Payload = datatypes.JSON(raw)
	}
	return n, nil
}

// NotifyUser stores one notification, pushes it to the user's room and
// emails a copy when a mailer is configured.
func (s *Service) NotifyUser(ctx context.Context, userID uint, msg Message) error {
	n, err := s.row(userID, msg)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	s.push(ctx, realtime.UserRoom(userID), n)

	if s.mailer != nil {
		var user models.User
		if err := s.db.WithContext(ctx).Select("id", "name", "email").First(&user, userID).Error; err != nil {
			s.log.Warn("notification email skipped; user lookup failed", "user_id", userID, "error", err)
			return nil
		}
		body := fmt.Sprintf("<p>%s</p>", html.EscapeString(msg.Message))
		err := s.mailer.Send(ctx, mail.Message{
			ToName:  user.Name,
			ToEmail: user.Email,
			Subject: msg.Title,
			Text:    msg.Message,
			HTML:    mail.Render(s.appName, msg.Title, body),
		})
		if err != nil {
			s.log.Warn("notification email failed", "user_id", userID, "error", err)
		}
	}
	return nil
}

// NotifyRole stores a copy for every user holding role and broadcasts once to the role room.
func (s *Service) NotifyRole(ctx context.Context, role string, msg Message) error {
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role)
	count, err := s.fanout(ctx, query, "id", msg)
	if err != nil {
		return err
	}
	s.log.Info("role notification stored", "role", role, "recipients", count)
	s.push(ctx, realtime.RoleRoom(role), models.Notification{Type: msg.Type, Title: msg.Title, Message: msg.Message, Link: msg.Link, CourseID: msg.CourseID})
	return nil
}

// NotifyCourse stores a copy for every enrolled student and broadcasts once to the course room.
func (s *Service) NotifyCourse(ctx context.Context, courseID uint, msg Message) error {
	if msg.CourseID == nil {
		id := courseID
		msg.CourseID = &id
	}
	query := s.db.WithContext(ctx).Model(&courseModels.Enrollment{}).Where("course_id = ?", courseID)
	count, err := s.fanout(ctx, query, "user_id", msg)
	if err != nil {
		return err
	}
	s.log.Debug("course notification stored", "course_id", courseID, "recipients", count)
	s.push(ctx, realtime.CourseRoom(courseID), models.Notification{Type: msg.Type, Title: msg.Title, Message: msg.Message, Link: msg.Link, CourseID: msg.CourseID})
	return nil
}

// fanout creates one notification per user id in column of query, in batches.
func (s *Service) fanout(ctx context.Context, query *gorm.DB, column string, msg Message) (int, error) {
	var ids []uint
	if err := query.Distinct().Pluck(column, &ids).Error; err != nil {
		return 0, fmt.Errorf("load recipients: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		n, err := s.row(id, msg)
		if err != nil {
			return 0, err
		}
		rows = append(rows, n)
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, fanoutBatchSize).Error; err != nil {
		return 0, fmt.Errorf("create notifications: %w", err)
	}
	return len(rows), nil
}

func (s *Service) push(ctx context.Context, room string, n models.Notification) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Publish(ctx, realtime.Message{Room: room, Event: realtime.EventNotification, Data: n}); err != nil {
		s.log.Warn("realtime publish failed", "room", room, "error", err)
	}
}
