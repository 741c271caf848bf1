package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateEpisode adds an episode to a course. Episode numbers are unique
// within the course; a clash is reported, never silently renumbered.
func CreateEpisode(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedEpisode").(*struct {
		EpisodeNumber   int    `json:"episode_number" validate:"required,min=1"`
		Title           string `json:"title" validate:"required,min=3"`
		Description     string `json:"description"`
		YoutubeURL      string `json:"youtube_url" validate:"required,url"`
		DurationMinutes int    `json:"duration_minutes"`
		IsPreview       bool   `json:"is_preview"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	episode := courseModels.Episode{
		CourseID:        uint(courseID),
		EpisodeNumber:   reqData.EpisodeNumber,
		Title:           reqData.Title,
		Description:     reqData.Description,
		YoutubeURL:      reqData.YoutubeURL,
		DurationMinutes: reqData.DurationMinutes,
		IsPreview:       reqData.IsPreview,
	}

	if err := database.Database.Db.Create(&episode).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Episode number already used in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create episode!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Episode created successfully!", episode)
}

// UpdateEpisode updates an episode's editable fields
func UpdateEpisode(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	episodeID := c.Locals("episodeID").(int)

	var episode courseModels.Episode
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = false", episodeID, courseID).First(&episode).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Episode not found!", nil)
	}

	reqData, ok := c.Locals("validatedEpisode").(*struct {
		EpisodeNumber   int    `json:"episode_number" validate:"required,min=1"`
		Title           string `json:"title" validate:"required,min=3"`
		Description     string `json:"description"`
		YoutubeURL      string `json:"youtube_url" validate:"required,url"`
		DurationMinutes int    `json:"duration_minutes"`
		IsPreview       bool   `json:"is_preview"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := map[string]interface{}{
		"episode_number":   reqData.EpisodeNumber,
		"title":            reqData.Title,
		"description":      reqData.Description,
		"youtube_url":      reqData.YoutubeURL,
		"duration_minutes": reqData.DurationMinutes,
		"is_preview":       reqData.IsPreview,
	}

	if err := database.Database.Db.Model(&episode).Updates(updates).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Episode number already used in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update episode!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Episode updated successfully!", episode)
}

// DeleteEpisode soft-deletes an episode. Existing enrollments keep their
// completion rows; percentages converge on the next recomputation.
func DeleteEpisode(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	episodeID := c.Locals("episodeID").(int)

	var episode courseModels.Episode
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = false", episodeID, courseID).First(&episode).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Episode not found!", nil)
	}

	if err := database.Database.Db.Model(&episode).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete episode!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Episode deleted successfully!", nil)
}
