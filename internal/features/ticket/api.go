package ticket

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TicketApi struct {
	controller *TicketController
	config     *config.Config
	checker    middleware.PermissionChecker
}

func NewTicketApi(controller *TicketController, cfg *config.Config, checker middleware.PermissionChecker) *TicketApi {
	return &TicketApi{
		controller: controller,
		config:     cfg,
		checker:    checker,
	}
}

// Setup registers ticket routes
func (h *TicketApi) Setup(app *fiber.App) {
	tickets := app.Group("/api/tickets", middleware.AuthMiddleware(h.config.SkipAuth))

	tickets.Get("/", h.controller.ListTickets)
	tickets.Post("/", middleware.RequirePermission(h.checker, permission.SubmitTickets), h.controller.SubmitTicket)
	tickets.Get("/:id", h.controller.GetTicket)
	tickets.Post("/:id/claim", middleware.RequirePermission(h.checker, permission.ClaimTickets), h.controller.ClaimTicket)
	tickets.Post("/:id/status", middleware.RequirePermission(h.checker, permission.CloseTickets, permission.AssignTickets, permission.ClaimTickets), h.controller.UpdateStatus)
	tickets.Post("/:id/comments", middleware.RequirePermission(h.checker, permission.CommentTickets), h.controller.AddComment)
}
