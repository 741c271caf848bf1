package course

import (
	"time"

	"gorm.io/gorm"
)

// EpisodeProgress records a user's completion of one episode. One row per
// (user, episode); completion is a one-way transition, rows are never
// un-completed. CourseID is denormalized so percentage recomputation can
// count completions without joining through episodes.
type EpisodeProgress struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_episode"`
	EpisodeID     uint       `json:"episode_id" gorm:"not null;uniqueIndex:idx_progress_user_episode"`
	CourseID      uint       `json:"course_id" gorm:"index;not null"`
	Completed     bool       `json:"completed" gorm:"default:true"`
	CompletedAt   *time.Time `json:"completed_at"`
	LastWatchedAt *time.Time `json:"last_watched_at"`
	IsDeleted     bool       `gorm:"default:false"`
}
