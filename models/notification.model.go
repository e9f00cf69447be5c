package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationCourseCreated   = "COURSE_CREATED"
	NotificationCoursePublished = "COURSE_PUBLISHED"
	NotificationCourseUpdated   = "COURSE_UPDATED"
	NotificationNewEnrollment   = "NEW_ENROLLMENT"
	NotificationNewReview       = "NEW_REVIEW"
)

type Notification struct {
	gorm.Model
	UserID   uint           `json:"user_id" gorm:"index;not null"`
	Type     string         `json:"type" gorm:"type:varchar(40)"`
	Title    string         `json:"title"`
	Message  string         `json:"message" gorm:"type:text"`
	Link     string         `json:"link"`
	CourseID *uint          `json:"course_id" gorm:"index"`
	Payload  datatypes.JSON `json:"payload"`
	IsRead   bool           `json:"is_read" gorm:"default:false;index"`
	ReadAt   *time.Time     `json:"read_at"`
}
