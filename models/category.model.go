package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name string `json:"name" gorm:"not null" yaml:"name"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null" yaml:"slug"`
}
