package middleware

import (
	"context"

	"go-helpdesk/internal/features/permission"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// PermissionChecker is implemented by the role service.
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleNames []string, p permission.Permission) bool
}

// RequirePermission rejects the request with 403 unless the caller holds any
// of the listed capabilities. Absent or unresolvable roles fail closed.
func RequirePermission(checker PermissionChecker, perms ...permission.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: no user context",
			})
		}

		for _, p := range perms {
			if checker.HasPermission(c.UserContext(), claims.Roles, p) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied: insufficient permissions for this action",
		})
	}
}
