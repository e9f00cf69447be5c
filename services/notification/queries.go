package notification

import (
	"context"
	"errors"
	"time"

	"learnhub/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

// Page is one page of a user's notifications.
type Page struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

func (s *Service) List(ctx context.Context, userID uint, page, limit int, unreadOnly bool) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := s.db.WithContext(ctx)
	out := &Page{Page: page, Limit: limit}

	base := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}
	if err := base.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&out.Unread).Error; err != nil {
		return nil, err
	}
	if err := base.Order("created_at desc").Order("id desc").Offset((page - 1) * limit).Limit(limit).Find(&out.Notifications).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID uint) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return res.RowsAffected, res.Error
}

// PruneRead permanently removes read notifications older than cutoff.
func (s *Service) PruneRead(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
