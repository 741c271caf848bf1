package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// EpisodeListing is an episode as shown on the course detail page. Video URLs
// are withheld unless the episode is a preview or the viewer is enrolled.
type EpisodeListing struct {
	courseModels.Episode
	Locked bool `json:"locked"`
}

// GetAllCourses lists published courses with optional filters
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND status = ?", false, courseModels.CourseStatusPublished)

	// Optional filters
	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		db = db.Where("category_id = ?", categoryID)
	}
	if level := c.Query("level"); level != "" {
		db = db.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		db = db.Where("title LIKE ?", "%"+search+"%")
	}
	if free := c.Query("free"); free == "true" {
		db = db.Where("is_free = ?", true)
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a published course with its episode list. The
// caller may be anonymous; enrollment only unlocks the video URLs.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, courseModels.CourseStatusPublished).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Enrollment is optional here; an anonymous viewer just sees locked episodes
	enrolled := false
	if userID, ok := c.Locals("userId").(uint); ok {
		var enrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error; err == nil {
			enrolled = true
		}
	}

	var episodes []courseModels.Episode
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = false", courseID).Order("episode_number asc").Find(&episodes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch episodes!", nil)
	}

	listing := make([]EpisodeListing, len(episodes))
	for i, ep := range episodes {
		locked := !enrolled && !ep.IsPreview
		if locked {
			ep.YoutubeURL = ""
		}
		listing[i] = EpisodeListing{Episode: ep, Locked: locked}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":   course,
		"episodes": listing,
		"enrolled": enrolled,
	})
}

// GetCategories lists catalog categories
func GetCategories(c *fiber.Ctx) error {
	var categories []courseModels.Category
	if err := database.Database.Db.Where("is_deleted = false").Order("name asc").Find(&categories).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}
