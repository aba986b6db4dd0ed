package ticket

import (
	"errors"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type TicketController struct {
	TicketService TicketService
}

func NewTicketController(ticketService TicketService) *TicketController {
	return &TicketController{TicketService: ticketService}
}

func viewerFromCtx(c *fiber.Ctx) Viewer {
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return Viewer{Email: claims.Email, Roles: claims.Roles}
	}
	return Viewer{}
}

// ListTickets godoc
// @Summary      List tickets visible to the caller
// @Tags         tickets
// @Produce      json
// @Success      200  {array} Ticket
// @Router       /api/tickets [get]
func (ctrl *TicketController) ListTickets(c *fiber.Ctx) error {
	tickets, err := ctrl.TicketService.ListTickets(c.UserContext(), viewerFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tickets)
}

// GetTicket godoc
// @Summary      Get a ticket by id
// @Tags         tickets
// @Produce      json
// @Param        id path string true "Ticket id"
// @Success      200  {object} Ticket
// @Failure      404  {string} string "Ticket not found"
// @Router       /api/tickets/{id} [get]
func (ctrl *TicketController) GetTicket(c *fiber.Ctx) error {
	t, err := ctrl.TicketService.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(t)
}

// SubmitTicket godoc
// @Summary      Submit a new ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        ticket body Ticket true "Ticket (id, status, submitter are assigned by the server)"
// @Success      201  {object} Ticket
// @Router       /api/tickets [post]
func (ctrl *TicketController) SubmitTicket(c *fiber.Ctx) error {
	var t Ticket
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, err := ctrl.TicketService.SubmitTicket(c.UserContext(), viewerFromCtx(c), t)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// ClaimTicket godoc
// @Summary      Claim an unassigned ticket
// @Tags         tickets
// @Produce      json
// @Param        id path string true "Ticket id"
// @Success      200  {object} Ticket
// @Failure      409  {string} string "Already claimed"
// @Router       /api/tickets/{id}/claim [post]
func (ctrl *TicketController) ClaimTicket(c *fiber.Ctx) error {
	t, err := ctrl.TicketService.ClaimTicket(c.UserContext(), viewerFromCtx(c), c.Params("id"))
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, ErrAlreadyClaimed):
			status = fiber.StatusConflict
		case errors.Is(err, bridge.ErrNotFound):
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(t)
}

// UpdateStatus godoc
// @Summary      Update a ticket's workflow status
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        body body object{status=string} true "New status"
// @Success      200  {object} Ticket
// @Router       /api/tickets/{id}/status [post]
func (ctrl *TicketController) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	t, err := ctrl.TicketService.UpdateStatus(c.UserContext(), viewerFromCtx(c), c.Params("id"), body.Status)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(t)
}

// AddComment godoc
// @Summary      Append a comment to a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        body body object{text=string} true "Comment text"
// @Success      200  {object} Ticket
// @Router       /api/tickets/{id}/comments [post]
func (ctrl *TicketController) AddComment(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	t, err := ctrl.TicketService.AddComment(c.UserContext(), viewerFromCtx(c), c.Params("id"), body.Text)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(t)
}
