package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noppadol/classdesk-api/internal/utils"
)

// RequireTeacher guards routes that only an authenticated teacher may use. It
// runs after JWTProtected and checks the role claim bound to the request.
func RequireTeacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if strings.ToLower(strings.TrimSpace(role)) != "teacher" {
			return utils.SendError(c, fiber.StatusForbidden, "teacher access required")
		}
		return c.Next()
	}
}
