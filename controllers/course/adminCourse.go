package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a new draft course owned by the calling admin
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title                  string `json:"title" validate:"required,min=3"`
		Description            string `json:"description"`
		CategoryID             *uint  `json:"category_id"`
		Level                  string `json:"level"`
		Price                  uint   `json:"price"`
		IsFree                 bool   `json:"is_free"`
		DurationHours          int    `json:"duration_hours"`
		ThumbnailURL           string `json:"thumbnail_url"`
		CertificateTemplateURL string `json:"certificate_template_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.CategoryID != nil {
		var category courseModels.Category
		if err := database.Database.Db.Where("id = ? AND is_deleted = false", *reqData.CategoryID).First(&category).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
		}
	}

	course := courseModels.Course{
		Title:                  reqData.Title,
		Description:            reqData.Description,
		InstructorID:           userID,
		CategoryID:             reqData.CategoryID,
		Level:                  reqData.Level,
		Price:                  reqData.Price,
		IsFree:                 reqData.IsFree,
		DurationHours:          reqData.DurationHours,
		ThumbnailURL:           reqData.ThumbnailURL,
		CertificateTemplateURL: reqData.CertificateTemplateURL,
		Status:                 courseModels.CourseStatusDraft,
	}
	if course.Level == "" {
		course.Level = "BEGINNER"
	}
	if course.IsFree {
		course.Price = 0
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates an existing course's editable fields
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title                  string `json:"title" validate:"required,min=3"`
		Description            string `json:"description"`
		CategoryID             *uint  `json:"category_id"`
		Level                  string `json:"level"`
		Price                  uint   `json:"price"`
		IsFree                 bool   `json:"is_free"`
		DurationHours          int    `json:"duration_hours"`
		ThumbnailURL           string `json:"thumbnail_url"`
		CertificateTemplateURL string `json:"certificate_template_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := map[string]interface{}{
		"title":                    reqData.Title,
		"description":              reqData.Description,
		"category_id":              reqData.CategoryID,
		"level":                    reqData.Level,
		"price":                    reqData.Price,
		"is_free":                  reqData.IsFree,
		"duration_hours":           reqData.DurationHours,
		"thumbnail_url":            reqData.ThumbnailURL,
		"certificate_template_url": reqData.CertificateTemplateURL,
	}
	if reqData.IsFree {
		updates["price"] = 0
	}

	if err := database.Database.Db.Model(&course).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// SetCourseStatus publishes or archives a course
func SetCourseStatus(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	status := c.Locals("courseStatus").(string)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := database.Database.Db.Model(&course).Update("status", status).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course status updated successfully!", course)
}

// DeleteCourse soft-deletes a course, hiding it from the catalog
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := database.Database.Db.Model(&course).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// CreateCategory creates a catalog category
func CreateCategory(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCategory").(*struct {
		Name string `json:"name" validate:"required,min=2"`
		Slug string `json:"slug" validate:"required,min=2"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	category := courseModels.Category{
		Name: reqData.Name,
		Slug: reqData.Slug,
	}

	if err := database.Database.Db.Create(&category).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category slug already exists!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}
