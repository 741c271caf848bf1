package middleware

import (
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates a route to ADMIN users. The role claim in the token is
// checked first, then re-verified against the database so a demoted user
// cannot keep riding an old token.
func RequireAdmin(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if role, ok := c.Locals("role").(string); !ok || role != "ADMIN" {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = false", userID, "ADMIN").First(&user).Error; err != nil {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	return c.Next()
}
