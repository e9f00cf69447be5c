package models

import "gorm.io/gorm"

// TutorProfile is required before a tutor can author courses
type TutorProfile struct {
	gorm.Model
	UserID     uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Headline   string  `json:"headline"`
	Bio        string  `json:"bio" gorm:"type:text"`
	Expertise  string  `json:"expertise"`
	HourlyRate float64 `json:"hourly_rate" gorm:"default:0"`
	IsVerified bool    `json:"is_verified" gorm:"default:false"`
	User       User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
