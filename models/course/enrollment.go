package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a student's enrollment in a course
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"index;not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID    uint       `json:"course_id" gorm:"index;not null;uniqueIndex:idx_enrollment_user_course"`
	Status      string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress    float64    `json:"progress" gorm:"default:0"`
	CompletedAt *time.Time `json:"completed_at"`
	Course      Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
