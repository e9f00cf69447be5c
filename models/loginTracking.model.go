package models

import (
	"gorm.io/gorm"
)

// LoginTracking records one successful login.
type LoginTracking struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	IPAddress string `json:"ip_address"`
	Device    string `json:"device"`
}
