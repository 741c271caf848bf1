package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EpisodeBody validates the episode create/update payload and the course id parameter
func EpisodeBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			EpisodeNumber   int    `json:"episode_number" validate:"required,min=1"`
			Title           string `json:"title" validate:"required,min=3"`
			Description     string `json:"description"`
			YoutubeURL      string `json:"youtube_url" validate:"required,url"`
			DurationMinutes int    `json:"duration_minutes"`
			IsPreview       bool   `json:"is_preview"`
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

		c.Locals("courseID", courseID)
		c.Locals("validatedEpisode", reqData)
		return c.Next()
	}
}

// EpisodeParams validates the course and episode id route parameters
func EpisodeParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		episodeID, ok := parseIDParam(c, "episode_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Episode ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("episodeID", episodeID)
		return c.Next()
	}
}

// MarkEpisodeComplete validates the episode id route parameter
func MarkEpisodeComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		episodeID, ok := parseIDParam(c, "episode_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Episode ID!", nil)
		}

		c.Locals("episodeID", episodeID)
		return c.Next()
	}
}
