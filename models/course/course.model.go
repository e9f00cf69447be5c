package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

const (
	DemandHigh   = "high"
	DemandMedium = "medium"
	DemandLow    = "low"
)

// Course represents a tutor-authored course
type Course struct {
	gorm.Model
	Title            string         `json:"title" gorm:"not null"`
	Slug             string         `json:"slug" gorm:"index"`
	Description      string         `json:"description" gorm:"type:text"`
	ShortDescription string         `json:"short_description"`
	CategoryID       *uint          `json:"category_id" gorm:"index"`
	Level            string         `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED, ALL
	Language         string         `json:"language" gorm:"default:'en'"`
	ThumbnailURL     string         `json:"thumbnail_url"`
	PreviewVideoURL  string         `json:"preview_video_url"`
	BasePrice        *float64       `json:"base_price"`
	CurrentPrice     *float64       `json:"current_price"`
	DemandLevel      *string        `json:"demand_level"`
	Status           string         `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED
	IsPublished      bool           `json:"is_published" gorm:"default:false;index"`
	PublishedAt      *time.Time     `json:"published_at"`
	TutorID          uint           `json:"tutor_id" gorm:"index;not null"`
	CreatorID        uint           `json:"creator_id" gorm:"index;not null"`
	Tags             []CourseTag    `json:"tags,omitempty" gorm:"foreignKey:CourseID"`
	Modules          []CourseModule `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

// CourseTag is a free-form label attached to a course
type CourseTag struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Name     string `json:"name" gorm:"not null"`
}
