package certificate

import (
	"errors"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotEnrolled is returned when the caller has no enrollment in the course
	ErrNotEnrolled = errors.New("user is not enrolled in this course")
	// ErrNotCompleted is returned when the enrollment's progress is not exactly 100
	ErrNotCompleted = errors.New("course not completed yet")
	// ErrNotFound is returned by Verify for an unknown certificate number
	ErrNotFound = errors.New("certificate not found")
)

// VerifiedCertificate is a certificate denormalized with the holder and
// course so a public verification page needs no further lookups.
type VerifiedCertificate struct {
	courseModels.Certificate
	CourseTitle     string `json:"course_title"`
	HolderName      string `json:"holder_name"`
	VerificationURL string `json:"verification_url"`
}

// Issue returns the certificate for (userID, courseID), minting it on first
// call. Issuance is get-or-create: a repeat call, or the loser of a
// concurrent double-invocation, gets the existing row back. The boolean
// reports whether this call created the certificate.
func Issue(db *gorm.DB, userID, courseID uint) (*courseModels.Certificate, bool, error) {
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error; err != nil {
		return nil, false, ErrNotEnrolled
	}

	// Exact equality: out-of-range cached values must not mint a certificate
	if enrollment.Progress != 100 {
		return nil, false, ErrNotCompleted
	}

	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	// The number is an opaque unique token; its uniqueness and the
	// (user, course) uniqueness are both enforced by the table, and a
	// conflict is never retried with a fresh number.
	number := utils.GenerateCertificateNumber()
	verificationURL := utils.CertificateVerificationURL(number)

	cert := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: number,
		IssuedAt:          time.Now(),
		QRCodeURL:         utils.QRCodeURL(verificationURL),
	}

	if err := db.Create(&cert).Error; err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the race with a concurrent issuance; re-read the winner's row
			if ferr := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; ferr != nil {
				return nil, false, ferr
			}
			return &existing, false, nil
		}
		return nil, false, err
	}

	return &cert, true, nil
}

// Verify resolves a certificate number into the issued certificate plus the
// holder's name and course title. Public, requires no authentication; an
// unknown number yields ErrNotFound, which is an expected input, not a fault.
func Verify(db *gorm.DB, certificateNumber string) (*VerifiedCertificate, error) {
	var cert courseModels.Certificate
	if err := db.Where("certificate_number = ?", certificateNumber).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// A certificate pointing at a removed course or holder cannot be rendered;
	// the public page gets the same not-found as an unknown number
	var crs courseModels.Course
	if err := db.Where("id = ?", cert.CourseID).First(&crs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var holder models.User
	if err := db.Where("id = ?", cert.UserID).First(&holder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &VerifiedCertificate{
		Certificate:     cert,
		CourseTitle:     crs.Title,
		HolderName:      holder.Name,
		VerificationURL: utils.CertificateVerificationURL(cert.CertificateNumber),
	}, nil
}
