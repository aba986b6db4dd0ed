package role

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller  *RoleController
	config      *config.Config
	roleService RoleService
}

func NewRoleApi(controller *RoleController, cfg *config.Config, roleService RoleService) *RoleApi {
	return &RoleApi{
		controller:  controller,
		config:      cfg,
		roleService: roleService,
	}
}

// Setup registers role routes
func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware(h.config.SkipAuth))

	roles.Get("/", h.controller.ListRoles)
	roles.Post("/", middleware.RequirePermission(h.roleService, permission.ManageRoles), h.controller.SaveRole)
	roles.Post("/refresh", middleware.RequirePermission(h.roleService, permission.ManageRoles), h.controller.RefreshRoles)
	roles.Get("/:name", h.controller.GetRole)
	roles.Post("/:name/toggle", middleware.RequirePermission(h.roleService, permission.ManageRoles), h.controller.TogglePermission)
	roles.Delete("/:name", middleware.RequirePermission(h.roleService, permission.ManageRoles), h.controller.DeleteRole)
}
