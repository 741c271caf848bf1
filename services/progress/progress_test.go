package progress

import (
	"lms/models"
	courseModels "lms/models/course"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func seedCourseWithEpisodes(t *testing.T, db *gorm.DB, episodeCount int) (courseModels.Course, []courseModels.Episode) {
	t.Helper()

	course := courseModels.Course{
		Title:        "Belajar Go",
		InstructorID: 1,
		Status:       courseModels.CourseStatusPublished,
		IsFree:       true,
	}
	require.NoError(t, db.Create(&course).Error)

	episodes := make([]courseModels.Episode, episodeCount)
	for i := 0; i < episodeCount; i++ {
		episodes[i] = courseModels.Episode{
			CourseID:      course.ID,
			EpisodeNumber: i + 1,
			Title:         "Episode",
			YoutubeURL:    "https://youtube.com/watch?v=abc",
		}
		require.NoError(t, db.Create(&episodes[i]).Error)
	}

	return course, episodes
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) courseModels.Enrollment {
	t.Helper()

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func loadEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) courseModels.Enrollment {
	t.Helper()

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error)
	return enrollment
}

func TestMarkEpisodeCompleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	course, episodes := seedCourseWithEpisodes(t, db, 2)
	seedEnrollment(t, db, 7, course.ID)

	first, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	time.Sleep(10 * time.Millisecond)

	second, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	require.NoError(t, err)

	// Exactly one row, and completed_at did not move on the repeat call
	var count int64
	db.Model(&courseModels.EpisodeProgress{}).Where("user_id = ? AND episode_id = ?", 7, episodes[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))

	// Percentage counts the episode once
	enrollment := loadEnrollment(t, db, 7, course.ID)
	assert.Equal(t, 50, enrollment.Progress)
}

func TestProgressPercentageMatchesCompletedCount(t *testing.T) {
	db := newTestDB(t)
	course, episodes := seedCourseWithEpisodes(t, db, 3)
	seedEnrollment(t, db, 7, course.ID)

	_, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 33, loadEnrollment(t, db, 7, course.ID).Progress)

	_, err = MarkEpisodeComplete(db, 7, episodes[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 67, loadEnrollment(t, db, 7, course.ID).Progress)

	_, err = MarkEpisodeComplete(db, 7, episodes[2].ID)
	require.NoError(t, err)

	enrollment := loadEnrollment(t, db, 7, course.ID)
	assert.Equal(t, 100, enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestCompletedAtIsSetOnceAndNeverCleared(t *testing.T) {
	db := newTestDB(t)
	course, episodes := seedCourseWithEpisodes(t, db, 1)
	seedEnrollment(t, db, 7, course.ID)

	_, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	require.NoError(t, err)

	completedAt := loadEnrollment(t, db, 7, course.ID).CompletedAt
	require.NotNil(t, completedAt)

	time.Sleep(10 * time.Millisecond)

	// Further recomputation keeps both the percentage and the timestamp
	require.NoError(t, Recompute(db, 7, course.ID))

	enrollment := loadEnrollment(t, db, 7, course.ID)
	assert.Equal(t, 100, enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
	assert.True(t, completedAt.Equal(*enrollment.CompletedAt))
}

func TestZeroEpisodeCourseStaysAtZeroProgress(t *testing.T) {
	db := newTestDB(t)
	course, _ := seedCourseWithEpisodes(t, db, 0)
	seedEnrollment(t, db, 7, course.ID)

	require.NoError(t, Recompute(db, 7, course.ID))

	enrollment := loadEnrollment(t, db, 7, course.ID)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestRecomputeIgnoresRemovedEpisodes(t *testing.T) {
	db := newTestDB(t)
	course, episodes := seedCourseWithEpisodes(t, db, 2)
	seedEnrollment(t, db, 7, course.ID)

	_, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, loadEnrollment(t, db, 7, course.ID).Progress)

	// Removing the completed episode leaves one live episode, none of them
	// completed; the stale completion row must not count as 1 of 1
	require.NoError(t, db.Model(&episodes[0]).Update("is_deleted", true).Error)
	require.NoError(t, Recompute(db, 7, course.ID))

	enrollment := loadEnrollment(t, db, 7, course.ID)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestMarkEpisodeCompleteRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	_, episodes := seedCourseWithEpisodes(t, db, 1)

	_, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	var count int64
	db.Model(&courseModels.EpisodeProgress{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMarkEpisodeCompleteUnknownEpisode(t *testing.T) {
	db := newTestDB(t)

	_, err := MarkEpisodeComplete(db, 7, 999)
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
}

func TestCompletedEpisodeIDs(t *testing.T) {
	db := newTestDB(t)
	course, episodes := seedCourseWithEpisodes(t, db, 3)
	seedEnrollment(t, db, 7, course.ID)

	_, err := MarkEpisodeComplete(db, 7, episodes[0].ID)
	require.NoError(t, err)
	_, err = MarkEpisodeComplete(db, 7, episodes[2].ID)
	require.NoError(t, err)

	ids, err := CompletedEpisodeIDs(db, 7, course.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{episodes[0].ID, episodes[2].ID}, ids)
}
