package bridge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Reserved sheets holding configuration records. They are hidden from the
// schema because they are not data sheets.
const (
	mappingsSheet = "_Mappings"
	rolesSheet    = "_Roles"
)

var mappingsHeader = []string{"Mapping_ID", "Sheet_Name", "Sheet_Header", "App_Field_ID", "Description"}

var rolesHeader = []string{"Role_Name", "Description", "Permissions"}

// WorkbookStore is a local xlsx-backed implementation of Store, used in
// development and tests where no remote bridge is reachable.
type WorkbookStore struct {
	path   string
	file   *excelize.File
	logger *zap.Logger
	mu     sync.Mutex
}

func NewWorkbookStore(path string, logger *zap.Logger) (*WorkbookStore, error) {
	var f *excelize.File
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f = excelize.NewFile()
	} else {
		var err error
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
	}

	s := &WorkbookStore{path: path, file: f, logger: logger}
	if err := s.ensureReservedSheets(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WorkbookStore) ensureReservedSheets() error {
	for sheet, header := range map[string][]string{
		mappingsSheet: mappingsHeader,
		rolesSheet:    rolesHeader,
	} {
		idx, err := s.file.GetSheetIndex(sheet)
		if err != nil {
			return err
		}
		if idx >= 0 {
			continue
		}
		if _, err := s.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		for col, h := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := s.file.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
	}
	return s.file.SaveAs(s.path)
}

func (s *WorkbookStore) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func isReserved(sheet string) bool {
	return strings.HasPrefix(sheet, "_") || sheet == "Sheet1"
}

func (s *WorkbookStore) FetchSchema(ctx context.Context) (Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema := Schema{}
	for _, sheet := range s.file.GetSheetList() {
		if isReserved(sheet) {
			continue
		}
		rows, err := s.file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			schema[sheet] = []string{}
			continue
		}
		schema[sheet] = rows[0]
	}
	return schema, nil
}

func (s *WorkbookStore) ListMappings(ctx context.Context) ([]FieldMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(mappingsSheet)
	if err != nil {
		return nil, err
	}

	var mappings []FieldMapping
	for i, row := range rows {
		if i == 0 || len(row) == 0 || cell(row, 0) == "" {
			continue
		}
		mappings = append(mappings, FieldMapping{
			MappingID:   cell(row, 0),
			SheetName:   cell(row, 1),
			SheetHeader: cell(row, 2),
			AppFieldID:  cell(row, 3),
			Description: cell(row, 4),
		})
	}
	return mappings, nil
}

func (s *WorkbookStore) SaveMapping(ctx context.Context, m FieldMapping) (FieldMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.MappingID == "" {
		m.MappingID = uuid.NewString()
	}

	rowIdx, err := s.findRow(mappingsSheet, 1, m.MappingID)
	if err != nil {
		return FieldMapping{}, err
	}
	if rowIdx == 0 {
		rows, err := s.file.GetRows(mappingsSheet)
		if err != nil {
			return FieldMapping{}, err
		}
		rowIdx = len(rows) + 1
	}

	values := []string{m.MappingID, m.SheetName, m.SheetHeader, m.AppFieldID, m.Description}
	for col, v := range values {
		cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return FieldMapping{}, err
		}
		if err := s.file.SetCellValue(mappingsSheet, cellName, v); err != nil {
			return FieldMapping{}, err
		}
	}

	if err := s.save(); err != nil {
		return FieldMapping{}, err
	}
	return m, nil
}

func (s *WorkbookStore) DeleteMapping(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowIdx, err := s.findRow(mappingsSheet, 1, id)
	if err != nil {
		return err
	}
	if rowIdx == 0 {
		return fmt.Errorf("%w: mapping %s", ErrNotFound, id)
	}
	if err := s.file.RemoveRow(mappingsSheet, rowIdx); err != nil {
		return err
	}
	return s.save()
}

func (s *WorkbookStore) AddColumn(ctx context.Context, sheet, header string) (AddColumnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.file.GetSheetIndex(sheet)
	if err != nil {
		return AddColumnResult{}, err
	}
	if idx < 0 {
		return AddColumnResult{Success: false, Message: fmt.Sprintf("sheet %q does not exist", sheet)}, nil
	}

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return AddColumnResult{}, err
	}
	var headers []string
	if len(rows) > 0 {
		headers = rows[0]
	}
	for _, h := range headers {
		if h == header {
			return AddColumnResult{Success: false, Message: fmt.Sprintf("column %q already exists", header)}, nil
		}
	}

	cellName, err := excelize.CoordinatesToCellName(len(headers)+1, 1)
	if err != nil {
		return AddColumnResult{}, err
	}
	if err := s.file.SetCellValue(sheet, cellName, header); err != nil {
		return AddColumnResult{}, err
	}
	if err := s.save(); err != nil {
		return AddColumnResult{}, err
	}
	return AddColumnResult{Success: true, Message: fmt.Sprintf("column %q created", header)}, nil
}

func (s *WorkbookStore) ListRoles(ctx context.Context) ([]Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(rolesSheet)
	if err != nil {
		return nil, err
	}

	var roles []Role
	for i, row := range rows {
		if i == 0 || len(row) == 0 || cell(row, 0) == "" {
			continue
		}
		roles = append(roles, Role{
			Name:        cell(row, 0),
			Description: cell(row, 1),
			Permissions: splitList(cell(row, 2)),
		})
	}
	return roles, nil
}

func (s *WorkbookStore) SaveRole(ctx context.Context, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowIdx, err := s.findRow(rolesSheet, 1, r.Name)
	if err != nil {
		return err
	}
	if rowIdx == 0 {
		rows, err := s.file.GetRows(rolesSheet)
		if err != nil {
			return err
		}
		rowIdx = len(rows) + 1
	}

	values := []string{r.Name, r.Description, strings.Join(r.Permissions, ",")}
	for col, v := range values {
		cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(rolesSheet, cellName, v); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *WorkbookStore) DeleteRole(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowIdx, err := s.findRow(rolesSheet, 1, name)
	if err != nil {
		return err
	}
	if rowIdx == 0 {
		return fmt.Errorf("%w: role %s", ErrNotFound, name)
	}
	if err := s.file.RemoveRow(rolesSheet, rowIdx); err != nil {
		return err
	}
	return s.save()
}

func (s *WorkbookStore) ReadRows(ctx context.Context, sheet string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	var out []Row
	for _, raw := range rows[1:] {
		row := Row{}
		empty := true
		for col, h := range headers {
			v := cell(raw, col)
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *WorkbookStore) AppendRow(ctx context.Context, sheet string, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %s has no header row", sheet)
	}

	headers := rows[0]
	rowIdx := len(rows) + 1
	for col, h := range headers {
		v, ok := row[h]
		if !ok {
			continue
		}
		cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(sheet, cellName, v); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *WorkbookStore) UpdateRow(ctx context.Context, sheet, keyHeader, keyValue string, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %s has no header row", sheet)
	}

	headers := rows[0]
	keyCol := -1
	for col, h := range headers {
		if h == keyHeader {
			keyCol = col
			break
		}
	}
	if keyCol < 0 {
		return fmt.Errorf("sheet %s has no column %q", sheet, keyHeader)
	}

	rowIdx := 0
	for i, raw := range rows[1:] {
		if cell(raw, keyCol) == keyValue {
			rowIdx = i + 2
			break
		}
	}
	if rowIdx == 0 {
		return fmt.Errorf("%w: %s=%s in sheet %s", ErrNotFound, keyHeader, keyValue, sheet)
	}

	for col, h := range headers {
		v, ok := row[h]
		if !ok {
			continue
		}
		cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(sheet, cellName, v); err != nil {
			return err
		}
	}
	return s.save()
}

// findRow returns the 1-based row number whose keyCol (1-based) equals value,
// or 0 when absent. Row 1 is the header and never matches.
func (s *WorkbookStore) findRow(sheet string, keyCol int, value string) (int, error) {
	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cell(row, keyCol-1) == value {
			return i + 1, nil
		}
	}
	return 0, nil
}

func cell(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
