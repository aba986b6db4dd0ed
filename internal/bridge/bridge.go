package bridge

import (
	"context"
	"errors"
	"fmt"

	"go-helpdesk/internal/config"

	"go.uber.org/zap"
)

// Row is one spreadsheet row keyed by column header.
type Row map[string]string

// Schema maps sheet name to its ordered column headers.
type Schema map[string][]string

// Role is the wire shape of a role record in the store.
type Role struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// FieldMapping binds one sheet column to one application field.
type FieldMapping struct {
	MappingID   string `json:"mapping_id"`
	SheetName   string `json:"sheet_name"`
	SheetHeader string `json:"sheet_header"`
	AppFieldID  string `json:"app_field_id"`
	Description string `json:"description,omitempty"`
}

// AddColumnResult reports the outcome of a column creation request.
type AddColumnResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrRejected marks a logical rejection reported by the store, as opposed to
// a transport failure. Callers surface the attached message to the user.
var ErrRejected = errors.New("store rejected request")

// ErrNotFound is returned when a record id or key does not exist in the store.
var ErrNotFound = errors.New("record not found")

// Store is the single remote-procedure surface through which all durable
// reads and writes reach the spreadsheet-backed service.
type Store interface {
	FetchSchema(ctx context.Context) (Schema, error)

	ListMappings(ctx context.Context) ([]FieldMapping, error)
	SaveMapping(ctx context.Context, m FieldMapping) (FieldMapping, error)
	DeleteMapping(ctx context.Context, id string) error
	AddColumn(ctx context.Context, sheet, header string) (AddColumnResult, error)

	ListRoles(ctx context.Context) ([]Role, error)
	SaveRole(ctx context.Context, r Role) error
	DeleteRole(ctx context.Context, name string) error

	ReadRows(ctx context.Context, sheet string) ([]Row, error)
	AppendRow(ctx context.Context, sheet string, row Row) error
	UpdateRow(ctx context.Context, sheet, keyHeader, keyValue string, row Row) error
}

// NewStore selects the store implementation from config.
func NewStore(cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.StoreMode {
	case "workbook":
		return NewWorkbookStore(cfg.WorkbookPath, log)
	case "remote", "":
		return NewRemoteStore(cfg.BridgeURL, cfg.BridgeToken, log), nil
	default:
		return nil, fmt.Errorf("unknown store mode %q", cfg.StoreMode)
	}
}
