package course

import "gorm.io/gorm"

// Course statuses
const (
	CourseStatusDraft     = "DRAFT"
	CourseStatusPublished = "PUBLISHED"
	CourseStatusArchived  = "ARCHIVED"
)

// Course represents a sellable learning course
type Course struct {
	gorm.Model
	Title                  string `json:"title"`
	Description            string `json:"description" gorm:"type:text"`
	InstructorID           uint   `json:"instructor_id" gorm:"index;not null"`
	CategoryID             *uint  `json:"category_id" gorm:"index"`
	Level                  string `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	Price                  uint   `json:"price" gorm:"default:0"`          // in IDR, ignored when IsFree
	IsFree                 bool   `json:"is_free" gorm:"default:false"`
	Status                 string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED, ARCHIVED
	DurationHours          int    `json:"duration_hours" gorm:"default:0"`
	ThumbnailURL           string `json:"thumbnail_url"`
	CertificateTemplateURL string `json:"certificate_template_url"`
	IsDeleted              bool   `gorm:"default:false"`
}
