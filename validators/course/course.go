package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseIDParam validates a positive integer route parameter
func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetCourseDetail validates the course id route parameter
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseList validates catalog pagination, defaulting to the first page
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		// Default pagination for the public catalog
		if reqData.Page == nil {
			page := 1
			reqData.Page = &page
		}
		if reqData.Limit == nil {
			limit := 10
			reqData.Limit = &limit
		}

		errors := make(map[string]string)
		if *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if *reqData.Limit < 1 || *reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CourseBody validates the course create/update payload
func CourseBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[strings.ToLower(fieldErr.Field())] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Level != "" && reqData.Level != "BEGINNER" && reqData.Level != "INTERMEDIATE" && reqData.Level != "ADVANCED" {
			return middleware.ValidationErrorResponse(c, map[string]string{"level": "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"})
		}

		if !reqData.IsFree && reqData.Price == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"price": "Paid courses must have a price!"})
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseStatus validates the publish/archive payload
func CourseStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Status != "PUBLISHED" && reqData.Status != "ARCHIVED" {
			return middleware.ValidationErrorResponse(c, map[string]string{"status": "Status must be PUBLISHED or ARCHIVED!"})
		}

		c.Locals("courseID", courseID)
		c.Locals("courseStatus", reqData.Status)
		return c.Next()
	}
}

// CategoryBody validates the category create payload
func CategoryBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name string `json:"name" validate:"required,min=2"`
			Slug string `json:"slug" validate:"required,min=2"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[strings.ToLower(fieldErr.Field())] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}
