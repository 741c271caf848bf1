package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment grants a user access to a course's content and caches the
// derived completion percentage. At most one enrollment exists per
// (user, course) pair; the composite unique index backs the idempotent
// creation paths (free signup and payment webhook).
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Progress    int        `json:"progress" gorm:"default:0"` // completion percentage (0-100)
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"` // set once when progress first reaches 100
	IsDeleted   bool       `gorm:"default:false"`
}
