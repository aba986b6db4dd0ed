package mapping

import (
	"errors"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type MappingController struct {
	MappingService MappingService
}

func NewMappingController(mappingService MappingService) *MappingController {
	return &MappingController{MappingService: mappingService}
}

// ListMappings godoc
// @Summary      List all field mappings
// @Description  Critical mappings are marked so the UI can gate edits behind confirmation
// @Tags         mappings
// @Produce      json
// @Success      200  {array} ListedMapping
// @Router       /api/mappings [get]
func (ctrl *MappingController) ListMappings(c *fiber.Ctx) error {
	mappings, err := ctrl.MappingService.ListMappings(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(mappings)
}

// SaveMapping godoc
// @Summary      Create or update a field mapping
// @Description  Empty mapping_id creates; a save conflicting with another mapping's claim is rejected
// @Tags         mappings
// @Accept       json
// @Produce      json
// @Param        mapping body FieldMapping true "Mapping object"
// @Success      200  {object} FieldMapping
// @Failure      400  {string} string "Invalid or conflicting mapping"
// @Router       /api/mappings [post]
func (ctrl *MappingController) SaveMapping(c *fiber.Ctx) error {
	var m FieldMapping
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, err := ctrl.MappingService.SaveMapping(c.UserContext(), m)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(saved)
}

// DeleteMapping godoc
// @Summary      Delete a field mapping
// @Description  Deleting a critical mapping requires confirm=true
// @Tags         mappings
// @Produce      json
// @Param        id path string true "Mapping id"
// @Param        confirm query bool false "Required for critical mappings"
// @Success      200  {object} map[string]string
// @Failure      409  {string} string "Critical mapping not confirmed"
// @Router       /api/mappings/{id} [delete]
func (ctrl *MappingController) DeleteMapping(c *fiber.Ctx) error {
	id := c.Params("id")

	mappings, err := ctrl.MappingService.ListMappings(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	for _, m := range mappings {
		if m.MappingID == id && m.Critical && !c.QueryBool("confirm") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "mapping targets a critical field; repeat with confirm=true",
			})
		}
	}

	if err := ctrl.MappingService.DeleteMapping(c.UserContext(), id); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, bridge.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": id})
}

// GetSchema godoc
// @Summary      Get the current schema snapshot
// @Tags         mappings
// @Produce      json
// @Success      200  {object} map[string][]string
// @Router       /api/mappings/schema [get]
func (ctrl *MappingController) GetSchema(c *fiber.Ctx) error {
	schema := ctrl.MappingService.Schema()
	if schema == nil {
		refreshed, err := ctrl.MappingService.RefreshSchema(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		schema = refreshed
	}
	return c.JSON(schema)
}

// RefreshSchema godoc
// @Summary      Reload the schema snapshot from the store
// @Tags         mappings
// @Produce      json
// @Success      200  {object} map[string][]string
// @Router       /api/mappings/schema/refresh [post]
func (ctrl *MappingController) RefreshSchema(c *fiber.Ctx) error {
	schema, err := ctrl.MappingService.RefreshSchema(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(schema)
}

// AddColumn godoc
// @Summary      Create a new physical column in a sheet
// @Description  Pass header_name directly or app_field_id to derive the header from the field's label
// @Tags         mappings
// @Accept       json
// @Produce      json
// @Param        body body object{sheet_name=string,header_name=string,app_field_id=string} true "Column request"
// @Success      200  {object} bridge.AddColumnResult
// @Router       /api/mappings/columns [post]
func (ctrl *MappingController) AddColumn(c *fiber.Ctx) error {
	var body struct {
		SheetName  string `json:"sheet_name"`
		HeaderName string `json:"header_name"`
		AppFieldID string `json:"app_field_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	header := body.HeaderName
	if header == "" && body.AppFieldID != "" {
		field, ok := AppFieldByID(body.AppFieldID)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown app field " + body.AppFieldID,
			})
		}
		header = utils.HeaderFromLabel(field.Label)
	}

	result, err := ctrl.MappingService.AddColumn(c.UserContext(), body.SheetName, header)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// SmartMatch godoc
// @Summary      Auto-match unmapped columns to unmapped fields
// @Tags         mappings
// @Produce      json
// @Param        sheet path string true "Sheet name"
// @Success      200  {object} map[string]int
// @Router       /api/mappings/match/{sheet} [post]
func (ctrl *MappingController) SmartMatch(c *fiber.Ctx) error {
	created, err := ctrl.MappingService.SmartMatch(c.UserContext(), c.Params("sheet"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"created": created})
}

// UnmappedColumns godoc
// @Summary      List columns in a sheet with no mapping
// @Tags         mappings
// @Produce      json
// @Param        sheet query string true "Sheet name"
// @Success      200  {array} string
// @Router       /api/mappings/unmapped/columns [get]
func (ctrl *MappingController) UnmappedColumns(c *fiber.Ctx) error {
	columns, err := ctrl.MappingService.UnmappedColumns(c.UserContext(), c.Query("sheet"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(columns)
}

// UnmappedFields godoc
// @Summary      List catalog fields not yet claimed by any mapping
// @Tags         mappings
// @Produce      json
// @Success      200  {array} AppField
// @Router       /api/mappings/unmapped/fields [get]
func (ctrl *MappingController) UnmappedFields(c *fiber.Ctx) error {
	fields, err := ctrl.MappingService.UnmappedAppFields(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fields)
}

// ListFields godoc
// @Summary      List the AppField catalog
// @Tags         mappings
// @Produce      json
// @Param        category query string false "Category filter"
// @Success      200  {array} AppField
// @Router       /api/mappings/fields [get]
func (ctrl *MappingController) ListFields(c *fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		return c.JSON(FieldsByCategory(category))
	}
	return c.JSON(AppFields())
}

// ListCategories godoc
// @Summary      List AppField categories
// @Tags         mappings
// @Produce      json
// @Success      200  {array} string
// @Router       /api/mappings/categories [get]
func (ctrl *MappingController) ListCategories(c *fiber.Ctx) error {
	return c.JSON(Categories())
}
