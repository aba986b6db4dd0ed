package user

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
	checker    middleware.PermissionChecker
}

func NewUserApi(controller *UserController, cfg *config.Config, checker middleware.PermissionChecker) *UserApi {
	return &UserApi{
		controller: controller,
		config:     cfg,
		checker:    checker,
	}
}

// Setup registers user routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/me", h.controller.Me)
	users.Get("/", middleware.RequirePermission(h.checker, permission.ViewUsers, permission.ManageUsers), h.controller.ListUsers)
	users.Get("/:email", middleware.RequirePermission(h.checker, permission.ViewUsers, permission.ManageUsers), h.controller.GetUser)
}
