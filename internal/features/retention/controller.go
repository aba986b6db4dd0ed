package retention

import (
	"github.com/gofiber/fiber/v2"
)

type RetentionController struct {
	RetentionService RetentionService
}

func NewRetentionController(retentionService RetentionService) *RetentionController {
	return &RetentionController{RetentionService: retentionService}
}

// Sweep godoc
// @Summary      Run a retention sweep now
// @Description  Deletes audit and shipped-log records older than the retention window
// @Tags         retention
// @Produce      json
// @Success      200  {object} SweepResult
// @Router       /api/retention/sweep [post]
func (ctrl *RetentionController) Sweep(c *fiber.Ctx) error {
	result, err := ctrl.RetentionService.Sweep(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
