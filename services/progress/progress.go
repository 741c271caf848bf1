package progress

import (
	"errors"
	courseModels "lms/models/course"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrEpisodeNotFound is returned when the episode does not exist or was removed
	ErrEpisodeNotFound = errors.New("episode not found")
	// ErrNotEnrolled is returned when the caller has no enrollment in the episode's course
	ErrNotEnrolled = errors.New("user is not enrolled in this course")
)

// MarkEpisodeComplete records that userID finished episodeID and recomputes
// the enrollment's cached percentage. Marking an already-completed episode is
// a no-op that refreshes last_watched_at only; completed_at never moves.
// Concurrent completions of the same episode collapse to one row via the
// (user_id, episode_id) unique index.
func MarkEpisodeComplete(db *gorm.DB, userID, episodeID uint) (*courseModels.EpisodeProgress, error) {
	var episode courseModels.Episode
	if err := db.Where("id = ? AND is_deleted = false", episodeID).First(&episode).Error; err != nil {
		return nil, ErrEpisodeNotFound
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, episode.CourseID).First(&enrollment).Error; err != nil {
		return nil, ErrNotEnrolled
	}

	var record courseModels.EpisodeProgress
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var existing courseModels.EpisodeProgress
		err := tx.Where("user_id = ? AND episode_id = ? AND is_deleted = false", userID, episodeID).First(&existing).Error
		if err == nil {
			if uerr := tx.Model(&existing).Update("last_watched_at", now).Error; uerr != nil {
				return uerr
			}
			existing.LastWatchedAt = &now
			record = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record = courseModels.EpisodeProgress{
			UserID:        userID,
			EpisodeID:     episodeID,
			CourseID:      episode.CourseID,
			Completed:     true,
			CompletedAt:   &now,
			LastWatchedAt: &now,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost a race with a concurrent completion of the same episode;
			// the winner's row is the record.
			if ferr := tx.Where("user_id = ? AND episode_id = ?", userID, episodeID).First(&record).Error; ferr != nil {
				return ferr
			}
			return nil
		}

		return Recompute(tx, userID, episode.CourseID)
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Recompute recalculates the enrollment's completion percentage from the
// authoritative completed-count, never from a client-supplied delta. When the
// result first reaches exactly 100 it stamps completed_at; that transition is
// one-directional.
func Recompute(db *gorm.DB, userID, courseID uint) error {
	var totalEpisodes int64
	if err := db.Model(&courseModels.Episode{}).
		Where("course_id = ? AND is_deleted = false", courseID).
		Count(&totalEpisodes).Error; err != nil {
		return err
	}

	// Completions of since-removed episodes must not count, or the percentage
	// would overshoot the live-episode total
	liveEpisodes := db.Model(&courseModels.Episode{}).
		Select("id").
		Where("course_id = ? AND is_deleted = false", courseID)

	var completedEpisodes int64
	if err := db.Model(&courseModels.EpisodeProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ? AND is_deleted = false", userID, courseID, true).
		Where("episode_id IN (?)", liveEpisodes).
		Count(&completedEpisodes).Error; err != nil {
		return err
	}

	// A course with no episodes is never completable
	percentage := 0
	if totalEpisodes > 0 {
		percentage = int(math.Round(float64(completedEpisodes) / float64(totalEpisodes) * 100))
	}
	if percentage > 100 {
		percentage = 100
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	updates := map[string]interface{}{"progress": percentage}
	if percentage == 100 && enrollment.CompletedAt == nil {
		updates["completed_at"] = time.Now()
	}

	return db.Model(&enrollment).Updates(updates).Error
}

// CompletedEpisodeIDs lists the ids of episodes userID has completed in courseID
func CompletedEpisodeIDs(db *gorm.DB, userID, courseID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&courseModels.EpisodeProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ? AND is_deleted = false", userID, courseID, true).
		Pluck("episode_id", &ids).Error
	return ids, err
}
