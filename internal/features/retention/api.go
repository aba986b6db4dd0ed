package retention

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RetentionApi struct {
	controller *RetentionController
	config     *config.Config
	checker    middleware.PermissionChecker
}

func NewRetentionApi(controller *RetentionController, cfg *config.Config, checker middleware.PermissionChecker) *RetentionApi {
	return &RetentionApi{
		controller: controller,
		config:     cfg,
		checker:    checker,
	}
}

// Setup registers retention routes
func (h *RetentionApi) Setup(app *fiber.App) {
	retention := app.Group("/api/retention",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequirePermission(h.checker, permission.ManageSettings),
	)

	retention.Post("/sweep", h.controller.Sweep)
}
