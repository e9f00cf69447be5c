package course

import "gorm.io/gorm"

// CourseModule is an ordered section of a course
type CourseModule struct {
	gorm.Model
	CourseID    uint     `json:"course_id" gorm:"index;not null"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SortOrder   int      `json:"sort_order" gorm:"default:0"`
	Lessons     []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}
