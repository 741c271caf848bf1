package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued completion certificate. Exactly one per
// (user, course), minted once and never mutated; only an admin may delete
// one. The number doubles as the public verification token.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	IssuedAt          time.Time `json:"issued_at"`
	QRCodeURL         string    `json:"qr_code_url"` // rendered QR pointing at the verification page
}
