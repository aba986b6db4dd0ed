package audit

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
	checker    middleware.PermissionChecker
}

func NewAuditApi(controller *AuditController, cfg *config.Config, checker middleware.PermissionChecker) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     cfg,
		checker:    checker,
	}
}

// Setup registers audit routes
func (h *AuditApi) Setup(app *fiber.App) {
	logs := app.Group("/api/audit",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequirePermission(h.checker, permission.ViewAuditLog),
	)

	logs.Get("/", h.controller.ListLogs)
}
