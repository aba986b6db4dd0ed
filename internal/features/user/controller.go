package user

import (
	"errors"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{UserService: userService}
}

// ListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {array} User
// @Router       /api/users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := ctrl.UserService.ListUsers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

// Me godoc
// @Summary      Current user with effective permissions and visible views
// @Tags         users
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/users/me [get]
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no user context"})
	}

	u, err := ctrl.UserService.GetUserByEmail(c.UserContext(), claims.Email)
	if err != nil {
		if errors.Is(err, bridge.ErrNotFound) {
			// Token holder no longer in the Users sheet: degraded, not fatal
			u = &User{Email: claims.Email, Name: claims.Name}
		} else {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"user":        u,
		"permissions": ctrl.UserService.EffectivePermissions(c.UserContext(), *u),
		"views":       ctrl.UserService.VisibleViews(c.UserContext(), *u),
	})
}

// GetUser godoc
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Param        email path string true "User email"
// @Success      200  {object} User
// @Failure      404  {string} string "User not found"
// @Router       /api/users/{email} [get]
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	u, err := ctrl.UserService.GetUserByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(u)
}
