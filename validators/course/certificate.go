package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequestCertificate validates the course id parameter for issuance
func RequestCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// VerifyCertificate validates the certificate number route parameter
func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.TrimSpace(c.Params("number"))
		if number == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
		}

		c.Locals("certificateNumber", number)
		return c.Next()
	}
}

// CertificateID validates the certificate id parameter for admin operations
func CertificateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		certificateID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
		}

		c.Locals("certificateID", certificateID)
		return c.Next()
	}
}
