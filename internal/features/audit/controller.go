package audit

import (
	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	AuditService AuditService
}

func NewAuditController(auditService AuditService) *AuditController {
	return &AuditController{AuditService: auditService}
}

// ListLogs godoc
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Param        module query string false "Filter by feature (role, mapping, ticket)"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {array} models.AuditLog
// @Router       /api/audit [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	filters := map[string]interface{}{}
	if module := c.Query("module"); module != "" {
		filters["module"] = module
	}

	logs, err := ctrl.AuditService.ListLogs(
		c.UserContext(),
		filters,
		int64(c.QueryInt("page", 1)),
		int64(c.QueryInt("limit", 50)),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(logs)
}
