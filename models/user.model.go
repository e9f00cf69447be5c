package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleTutor   = "TUTOR"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage        string     `json:"profile_image" gorm:"default:''"`
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Role                string     `json:"role" gorm:"default:'STUDENT';index"` // STUDENT, TUTOR, ADMIN
	Password            string     `json:"-" gorm:"not null"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `json:"is_blocked" gorm:"default:false"`
	BlockedUntil        *time.Time `json:"blocked_until"`
}
