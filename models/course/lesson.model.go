package course

import "gorm.io/gorm"

const (
	LessonVideo      = "VIDEO"
	LessonText       = "TEXT"
	LessonQuiz       = "QUIZ"
	LessonAssignment = "ASSIGNMENT"
)

// Lesson is the smallest unit of course content
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	ModuleID        uint   `json:"module_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Type            string `json:"type" gorm:"default:'TEXT'"` // VIDEO, TEXT, QUIZ, ASSIGNMENT
	Content         string `json:"content" gorm:"type:text"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	SortOrder       int    `json:"sort_order" gorm:"default:0"`
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsPreview       bool   `json:"is_preview" gorm:"default:false"`
}
