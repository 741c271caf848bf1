package course

import "gorm.io/gorm"

// Episode represents one video lesson within a course. Episode numbers are
// unique within a course so playback order is unambiguous.
type Episode struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_course_episode_number"`
	EpisodeNumber   int    `json:"episode_number" gorm:"not null;uniqueIndex:idx_course_episode_number"`
	Title           string `json:"title"`
	Description     string `json:"description" gorm:"type:text"`
	YoutubeURL      string `json:"youtube_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	IsPreview       bool   `json:"is_preview" gorm:"default:false"` // preview episodes are watchable without enrolling
	IsDeleted       bool   `gorm:"default:false"`
}
