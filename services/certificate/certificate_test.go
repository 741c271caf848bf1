package certificate

import (
	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		AppBaseURL: "https://learn.example.com",
	}
	m.Run()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Keep the in-memory database alive on a single connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&courseModels.Category{},
		&courseModels.Course{},
		&courseModels.Episode{},
		&courseModels.Enrollment{},
		&courseModels.EpisodeProgress{},
		&courseModels.Certificate{},
	))

	return db
}

func seedCompletedEnrollment(t *testing.T, db *gorm.DB, progress int) (models.User, courseModels.Course) {
	t.Helper()

	user := models.User{Name: "Budi Santoso", Email: "budi@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{
		Title:        "Belajar Go",
		InstructorID: 1,
		Status:       courseModels.CourseStatusPublished,
	}
	require.NoError(t, db.Create(&course).Error)

	now := time.Now()
	enrollment := courseModels.Enrollment{
		UserID:     user.ID,
		CourseID:   course.ID,
		Progress:   progress,
		EnrolledAt: now,
	}
	if progress == 100 {
		enrollment.CompletedAt = &now
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return user, course
}

func TestIssueMintsCertificateOnce(t *testing.T) {
	db := newTestDB(t)
	user, course := seedCompletedEnrollment(t, db, 100)

	first, created, err := Issue(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.CertificateNumber)
	assert.Contains(t, first.QRCodeURL, "api.qrserver.com")

	second, created, err := Issue(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIssueConcurrentDoubleInvocation(t *testing.T) {
	db := newTestDB(t)
	user, course := seedCompletedEnrollment(t, db, 100)

	results := make([]*courseModels.Certificate, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = Issue(db, user.ID, course.ID)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].CertificateNumber, results[1].CertificateNumber)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIssueRejectsIncompleteCourse(t *testing.T) {
	db := newTestDB(t)
	user, course := seedCompletedEnrollment(t, db, 99)

	_, _, err := Issue(db, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestIssueRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)

	_, _, err := Issue(db, 42, 42)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestVerifyRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user, course := seedCompletedEnrollment(t, db, 100)

	issued, _, err := Issue(db, user.ID, course.ID)
	require.NoError(t, err)

	result, err := Verify(db, issued.CertificateNumber)
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, course.ID, result.CourseID)
	assert.Equal(t, "Budi Santoso", result.HolderName)
	assert.Equal(t, "Belajar Go", result.CourseTitle)
	assert.Equal(t, "https://learn.example.com/certificate/verify/"+issued.CertificateNumber, result.VerificationURL)
}

func TestVerifyCertificateForRemovedCourse(t *testing.T) {
	db := newTestDB(t)
	user, course := seedCompletedEnrollment(t, db, 100)

	issued, _, err := Issue(db, user.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&course).Error)

	_, err = Verify(db, issued.CertificateNumber)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyUnknownNumber(t *testing.T) {
	db := newTestDB(t)

	_, err := Verify(db, "nonexistent-123")
	assert.ErrorIs(t, err, ErrNotFound)
}
