package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	progressService "lms/services/progress"
	"time"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller into a free course. Paid courses go
// through the payment flow; their enrollment is created by the webhook.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, courseModels.CourseStatusPublished).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	if !course.IsFree {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This is a paid course, please complete payment to enroll!", nil)
	}

	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   uint(courseID),
		Progress:   0,
		EnrolledAt: time.Now(),
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetUserEnrollmentsList gets all enrollments for the current user
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseTitle  string `json:"course_title"`
		ThumbnailURL string `json:"thumbnail_url"`
		Level        string `json:"level"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:   e,
			CourseTitle:  course.Title,
			ThumbnailURL: course.ThumbnailURL,
			Level:        course.Level,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// MarkEpisodeComplete marks an episode as watched to the end and returns the
// refreshed enrollment alongside the completion record.
func MarkEpisodeComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	episodeID := c.Locals("episodeID").(int)

	record, err := progressService.MarkEpisodeComplete(database.Database.Db, userID, uint(episodeID))
	if err != nil {
		switch {
		case errors.Is(err, progressService.ErrEpisodeNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Episode not found!", nil)
		case errors.Is(err, progressService.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark episode as completed!", nil)
		}
	}

	var enrollment courseModels.Enrollment
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, record.CourseID).First(&enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Episode marked as completed successfully!", fiber.Map{
		"progress":   record,
		"enrollment": enrollment,
	})
}

// GetUserProgress returns the caller's enrollment and completed episode ids
// for one course.
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	completedIDs, err := progressService.CompletedEpisodeIDs(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var totalEpisodes int64
	database.Database.Db.Model(&courseModels.Episode{}).Where("course_id = ? AND is_deleted = false", courseID).Count(&totalEpisodes)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":     enrollment,
		"completed_ids":  completedIDs,
		"total_episodes": totalEpisodes,
	})
}
