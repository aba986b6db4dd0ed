package permission

import (
	"go-helpdesk/internal/config"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	controller *PermissionController
	config     *config.Config
	authGuard  fiber.Handler
}

func NewPermissionApi(controller *PermissionController, cfg *config.Config, authGuard fiber.Handler) *PermissionApi {
	return &PermissionApi{
		controller: controller,
		config:     cfg,
		authGuard:  authGuard,
	}
}

// Setup registers permission routes
func (h *PermissionApi) Setup(app *fiber.App) {
	perms := app.Group("/api/permissions", h.authGuard)

	perms.Get("/", h.controller.ListCatalog)
	perms.Get("/categories", h.controller.ListCategories)
	perms.Get("/views", h.controller.ListViewRules)
	perms.Get("/views/me", h.controller.MyViews)
}
