package permission

import (
	"context"

	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// Checker resolves role names to capabilities. Implemented by the role
// service; declared here so this package stays import-free of it.
type Checker interface {
	HasPermission(ctx context.Context, roleNames []string, p Permission) bool
}

type PermissionController struct {
	Checker Checker
}

func NewPermissionController(checker Checker) *PermissionController {
	return &PermissionController{Checker: checker}
}

// ListCatalog godoc
// @Summary      List the permission catalog
// @Description  Returns every defined permission, optionally narrowed to one category
// @Tags         permissions
// @Produce      json
// @Param        category query string false "Category filter"
// @Success      200 {array} Def
// @Router       /api/permissions [get]
func (ctrl *PermissionController) ListCatalog(c *fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		return c.JSON(ByCategory(Category(category)))
	}
	return c.JSON(Catalog())
}

// ListCategories godoc
// @Summary      List permission categories
// @Tags         permissions
// @Produce      json
// @Success      200 {array} string
// @Router       /api/permissions/categories [get]
func (ctrl *PermissionController) ListCategories(c *fiber.Ctx) error {
	return c.JSON(Categories())
}

// ListViewRules godoc
// @Summary      List view visibility rules
// @Description  The table mapping each dashboard view to the capabilities that reveal it
// @Tags         permissions
// @Produce      json
// @Success      200 {array} ViewRule
// @Router       /api/permissions/views [get]
func (ctrl *PermissionController) ListViewRules(c *fiber.Ctx) error {
	return c.JSON(ViewRules())
}

// MyViews godoc
// @Summary      List views visible to the caller
// @Tags         permissions
// @Produce      json
// @Success      200 {array} string
// @Router       /api/permissions/views/me [get]
func (ctrl *PermissionController) MyViews(c *fiber.Ctx) error {
	var roles []string
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		roles = claims.Roles
	}

	views := VisibleViews(func(p Permission) bool {
		return ctrl.Checker.HasPermission(c.UserContext(), roles, p)
	})
	if views == nil {
		views = []string{}
	}
	return c.JSON(views)
}
