package course

import "gorm.io/gorm"

// Category groups courses for catalog filtering
type Category struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	Slug      string `json:"slug" gorm:"uniqueIndex;not null"`
	IsDeleted bool   `gorm:"default:false"`
}
