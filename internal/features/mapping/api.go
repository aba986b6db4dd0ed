package mapping

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MappingApi struct {
	controller *MappingController
	config     *config.Config
	checker    middleware.PermissionChecker
}

func NewMappingApi(controller *MappingController, cfg *config.Config, checker middleware.PermissionChecker) *MappingApi {
	return &MappingApi{
		controller: controller,
		config:     cfg,
		checker:    checker,
	}
}

// Setup registers field mapping routes. Everything here is an administrative
// surface gated by the mapping capability.
func (h *MappingApi) Setup(app *fiber.App) {
	mappings := app.Group("/api/mappings",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequirePermission(h.checker, permission.ManageFieldMappings),
	)

	mappings.Get("/", h.controller.ListMappings)
	mappings.Post("/", h.controller.SaveMapping)
	mappings.Get("/schema", h.controller.GetSchema)
	mappings.Post("/schema/refresh", h.controller.RefreshSchema)
	mappings.Post("/columns", h.controller.AddColumn)
	mappings.Get("/fields", h.controller.ListFields)
	mappings.Get("/categories", h.controller.ListCategories)
	mappings.Get("/unmapped/columns", h.controller.UnmappedColumns)
	mappings.Get("/unmapped/fields", h.controller.UnmappedFields)
	mappings.Post("/match/:sheet", h.controller.SmartMatch)
	mappings.Delete("/:id", h.controller.DeleteMapping)
}
