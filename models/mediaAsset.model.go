package models

import "gorm.io/gorm"

const (
	MediaStatusPending  = "PENDING"
	MediaStatusUploaded = "UPLOADED"
)

// MediaAsset tracks an object handed out through a presigned upload
type MediaAsset struct {
	gorm.Model
	Key         string `json:"key" gorm:"size:255;uniqueIndex;not null"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Kind        string `json:"kind" gorm:"type:varchar(20)"` // image, video, document
	URL         string `json:"url"`
	UploaderID  uint   `json:"uploader_id" gorm:"index"`
	Size        int64  `json:"size" gorm:"default:0"`
	Status      string `json:"status" gorm:"default:'PENDING'"`
}
