package mapping

import (
	"errors"
	"fmt"
	"strings"

	"go-helpdesk/internal/bridge"
)

// FieldMapping is the store record binding one sheet column to one AppField.
type FieldMapping = bridge.FieldMapping

// ListedMapping is a FieldMapping annotated for display: critical mappings
// are marked distinctly so callers can gate mutations behind confirmation.
type ListedMapping struct {
	FieldMapping
	Critical bool `json:"critical"`
}

var (
	ErrEmptySheet  = errors.New("sheet name is required")
	ErrEmptyHeader = errors.New("sheet header is required")
	ErrEmptyField  = errors.New("app field id is required")
)

// Validate enforces the construction-time invariants on a single record:
// required fields present and the target drawn from the AppField catalog.
// Uniqueness across the mapping set is enforced by the service.
func Validate(m FieldMapping) error {
	if strings.TrimSpace(m.SheetName) == "" {
		return ErrEmptySheet
	}
	if strings.TrimSpace(m.SheetHeader) == "" {
		return ErrEmptyHeader
	}
	if strings.TrimSpace(m.AppFieldID) == "" {
		return ErrEmptyField
	}
	if _, ok := AppFieldByID(m.AppFieldID); !ok {
		return fmt.Errorf("unknown app field %q", m.AppFieldID)
	}
	return nil
}
