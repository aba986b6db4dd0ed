package role

import (
	"errors"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/internal/features/permission"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	RoleService RoleService
}

func NewRoleController(roleService RoleService) *RoleController {
	return &RoleController{RoleService: roleService}
}

// ListRoles godoc
// @Summary      List all roles
// @Tags         roles
// @Produce      json
// @Success      200  {array} Role
// @Failure      500  {string} string "Failed to list roles"
// @Router       /api/roles [get]
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.RoleService.ListRoles(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(roles)
}

// GetRole godoc
// @Summary      Get a role by name
// @Tags         roles
// @Produce      json
// @Param        name path string true "Role name"
// @Success      200  {object} Role
// @Failure      404  {string} string "Role not found"
// @Router       /api/roles/{name} [get]
func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	role, err := ctrl.RoleService.GetRoleByName(c.UserContext(), c.Params("name"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(role)
}

// SaveRole godoc
// @Summary      Create or update a role
// @Description  Upserts by role name; the name is the record key
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        role body Role true "Role object"
// @Success      200  {object} Role
// @Failure      400  {string} string "Invalid request body"
// @Router       /api/roles [post]
func (ctrl *RoleController) SaveRole(c *fiber.Ctx) error {
	var role Role
	if err := c.BodyParser(&role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.RoleService.SaveRole(c.UserContext(), role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(role)
}

// TogglePermission godoc
// @Summary      Toggle one permission on a role
// @Description  Adds the permission if absent, removes it if present, then saves
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        name path string true "Role name"
// @Param        body body object{permission=string} true "Permission id"
// @Success      200  {object} Role
// @Router       /api/roles/{name}/toggle [post]
func (ctrl *RoleController) TogglePermission(c *fiber.Ctx) error {
	var body struct {
		Permission string `json:"permission"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	role, err := ctrl.RoleService.GetRoleByName(c.UserContext(), c.Params("name"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	set := make([]permission.Permission, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		set = append(set, permission.Permission(p))
	}
	toggled := permission.Toggle(set, permission.Permission(body.Permission))

	role.Permissions = make([]string, 0, len(toggled))
	for _, p := range toggled {
		role.Permissions = append(role.Permissions, string(p))
	}

	if err := ctrl.RoleService.SaveRole(c.UserContext(), *role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(role)
}

// DeleteRole godoc
// @Summary      Delete a role
// @Description  Blocked while any user still references the role
// @Tags         roles
// @Produce      json
// @Param        name path string true "Role name"
// @Success      200  {object} map[string]string
// @Failure      409  {string} string "Role still referenced"
// @Router       /api/roles/{name} [delete]
func (ctrl *RoleController) DeleteRole(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := ctrl.RoleService.DeleteRole(c.UserContext(), name); err != nil {
		status := fiber.StatusConflict
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": name})
}

// RefreshRoles godoc
// @Summary      Reload the role catalog from the store
// @Tags         roles
// @Produce      json
// @Success      200  {object} map[string]string
// @Router       /api/roles/refresh [post]
func (ctrl *RoleController) RefreshRoles(c *fiber.Ctx) error {
	if err := ctrl.RoleService.Refresh(c.UserContext()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "refreshed"})
}
