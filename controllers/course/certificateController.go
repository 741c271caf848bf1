package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	certificateService "lms/services/certificate"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GenerateCertificate issues (or returns) the caller's certificate for a
// completed course.
func GenerateCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	cert, created, err := certificateService.Issue(database.Database.Db, userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, certificateService.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		case errors.Is(err, certificateService.ErrNotCompleted):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate, please try again!", nil)
		}
	}

	var course courseModels.Course
	database.Database.Db.Where("id = ?", cert.CourseID).First(&course)

	if created {
		utils.SendCertificateIssuedEmail(user.Email, user.Name, course.Title,
			cert.CertificateNumber, utils.CertificateVerificationURL(cert.CertificateNumber))
	}

	message := "Certificate generated successfully!"
	if !created {
		message = "Certificate already exists!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"certificate":      cert,
		"course_title":     course.Title,
		"verification_url": utils.CertificateVerificationURL(cert.CertificateNumber),
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseTitle: course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// VerifyCertificate resolves a certificate number for anyone holding it.
// Public route, no authentication; a mistyped number is an expected input
// and yields a neutral not-found body.
func VerifyCertificate(c *fiber.Ctx) error {
	certificateNumber := c.Locals("certificateNumber").(string)

	result, err := certificateService.Verify(database.Database.Db, certificateNumber)
	if err != nil {
		if errors.Is(err, certificateService.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", fiber.Map{
				"valid": false,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"valid":       true,
		"certificate": result,
	})
}

// AdminListCertificates lists all issued certificates
func AdminListCertificates(c *fiber.Ctx) error {
	var certificates []courseModels.Certificate
	if err := database.Database.Db.Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}

// AdminDeleteCertificate revokes a certificate. The row is removed outright
// so a later re-issue can mint a fresh number for the same (user, course).
func AdminDeleteCertificate(c *fiber.Ctx) error {
	certificateID := c.Locals("certificateID").(int)

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("id = ?", certificateID).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked successfully!", nil)
}
