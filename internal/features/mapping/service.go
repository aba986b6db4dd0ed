package mapping

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-helpdesk/internal/bridge"
	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/system"
	"go-helpdesk/pkg/utils"

	"go.uber.org/zap"
)

type MappingService interface {
	// RefreshSchema pulls the current column layout for all sheets. On any
	// failure the previous snapshot is left untouched.
	RefreshSchema(ctx context.Context) (bridge.Schema, error)
	Schema() bridge.Schema

	ListMappings(ctx context.Context) ([]ListedMapping, error)
	SaveMapping(ctx context.Context, m FieldMapping) (FieldMapping, error)
	DeleteMapping(ctx context.Context, id string) error
	AddColumn(ctx context.Context, sheet, header string) (bridge.AddColumnResult, error)
	SmartMatch(ctx context.Context, sheet string) (int, error)

	// Derived reports, side-effect free over current state.
	UnmappedColumns(ctx context.Context, sheet string) ([]string, error)
	UsedColumns(ctx context.Context, sheet string) ([]string, error)
	UnmappedAppFields(ctx context.Context) ([]AppField, error)

	Refresh(ctx context.Context) error
}

type MappingServiceImpl struct {
	Repo         MappingRepository
	Store        bridge.Store
	AuditService audit.AuditService
	Hub          *system.Hub
	Logger       *zap.Logger

	mu       sync.Mutex
	snapshot bridge.Schema
}

func NewMappingService(
	repo MappingRepository,
	store bridge.Store,
	auditService audit.AuditService,
	hub *system.Hub,
	logger *zap.Logger,
) MappingService {
	return &MappingServiceImpl{
		Repo:         repo,
		Store:        store,
		AuditService: auditService,
		Hub:          hub,
		Logger:       logger,
	}
}

func (s *MappingServiceImpl) RefreshSchema(ctx context.Context) (bridge.Schema, error) {
	schema, err := s.Store.FetchSchema(ctx)
	if err != nil {
		s.Logger.Error("Schema refresh failed", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = schema
	s.mu.Unlock()

	s.Hub.Publish("schema.refreshed", nil)
	return schema, nil
}

// Schema returns the last fetched snapshot, which may be nil before the first
// refresh.
func (s *MappingServiceImpl) Schema() bridge.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *MappingServiceImpl) Refresh(ctx context.Context) error {
	if err := s.Repo.Refresh(ctx); err != nil {
		return err
	}
	_, err := s.RefreshSchema(ctx)
	return err
}

func (s *MappingServiceImpl) ListMappings(ctx context.Context) ([]ListedMapping, error) {
	mappings, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	listed := make([]ListedMapping, 0, len(mappings))
	for _, m := range mappings {
		listed = append(listed, ListedMapping{
			FieldMapping: m,
			Critical:     IsCritical(m.AppFieldID),
		})
	}
	return listed, nil
}

// SaveMapping upserts a mapping. An empty MappingID is a create. A save whose
// column or field is already claimed by a different mapping is rejected, it
// never displaces the prior claim; the operator deletes the old mapping
// first.
func (s *MappingServiceImpl) SaveMapping(ctx context.Context, m FieldMapping) (FieldMapping, error) {
	m.SheetName = strings.TrimSpace(m.SheetName)
	m.SheetHeader = strings.TrimSpace(m.SheetHeader)
	m.AppFieldID = strings.TrimSpace(m.AppFieldID)

	if err := Validate(m); err != nil {
		return FieldMapping{}, err
	}

	existing, err := s.Repo.List(ctx)
	if err != nil {
		return FieldMapping{}, err
	}
	for _, other := range existing {
		if other.MappingID == m.MappingID {
			continue
		}
		if other.AppFieldID == m.AppFieldID {
			return FieldMapping{}, fmt.Errorf("field %q is already mapped by %s (sheet %q, column %q)",
				m.AppFieldID, other.MappingID, other.SheetName, other.SheetHeader)
		}
		if other.SheetName == m.SheetName && other.SheetHeader == m.SheetHeader {
			return FieldMapping{}, fmt.Errorf("column %q in sheet %q is already mapped by %s to %q",
				m.SheetHeader, m.SheetName, other.MappingID, other.AppFieldID)
		}
	}

	saved, err := s.Repo.Save(ctx, m)
	if err != nil {
		return FieldMapping{}, err
	}

	action := common_models.AuditActionUpdate
	if m.MappingID == "" {
		action = common_models.AuditActionCreate
	}
	_ = s.AuditService.LogChange(ctx, action, "mapping", saved.MappingID, map[string]common_models.Change{
		"binding": {New: fmt.Sprintf("%s!%s -> %s", saved.SheetName, saved.SheetHeader, saved.AppFieldID)},
	})
	s.Hub.Publish("mapping.saved", saved.MappingID)

	return saved, nil
}

// DeleteMapping executes and logs the delete. Confirmation for critical
// mappings is the caller's gate; the engine only marks such mappings in
// listings and records what was removed.
func (s *MappingServiceImpl) DeleteMapping(ctx context.Context, id string) error {
	mappings, err := s.Repo.List(ctx)
	if err != nil {
		return err
	}
	var target *FieldMapping
	for i := range mappings {
		if mappings[i].MappingID == id {
			target = &mappings[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: mapping %s", bridge.ErrNotFound, id)
	}

	if IsCritical(target.AppFieldID) {
		s.Logger.Warn("Deleting critical field mapping",
			zap.String("mapping_id", id),
			zap.String("app_field_id", target.AppFieldID),
		)
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "mapping", id, map[string]common_models.Change{
		"binding": {Old: fmt.Sprintf("%s!%s -> %s", target.SheetName, target.SheetHeader, target.AppFieldID)},
	})
	s.Hub.Publish("mapping.deleted", id)

	return nil
}

// AddColumn requests a new physical column. Column creation and mapping
// creation are separate calls; a failure between them leaves an unmapped new
// column, which shows up in the unused-columns report and is recoverable.
func (s *MappingServiceImpl) AddColumn(ctx context.Context, sheet, header string) (bridge.AddColumnResult, error) {
	header = strings.TrimSpace(header)
	if sheet == "" || header == "" {
		return bridge.AddColumnResult{}, fmt.Errorf("sheet name and header are required")
	}

	result, err := s.Store.AddColumn(ctx, sheet, header)
	if err != nil {
		return bridge.AddColumnResult{}, err
	}

	if result.Success {
		// Sheet structure changed; reload the snapshot so the new column is
		// visible. A refresh failure here is not fatal to the creation.
		if _, err := s.RefreshSchema(ctx); err != nil {
			s.Logger.Warn("Schema refresh after column creation failed", zap.Error(err))
		}
	}
	return result, nil
}

// SmartMatch auto-creates mappings for every unmapped column in the sheet
// whose normalized header lines up with an unmapped AppField. Per column the
// checks run in priority order: normalized label equality, normalized
// id-suffix equality, then column-contains-id-suffix; the first match wins.
// Returns the number of mappings created; zero is a valid outcome.
func (s *MappingServiceImpl) SmartMatch(ctx context.Context, sheet string) (int, error) {
	columns, err := s.UnmappedColumns(ctx, sheet)
	if err != nil {
		return 0, err
	}
	fields, err := s.UnmappedAppFields(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, col := range columns {
		normCol := utils.NormalizeKey(col)
		if normCol == "" {
			continue
		}

		matched := matchField(normCol, fields)
		if matched < 0 {
			continue
		}
		field := fields[matched]

		if _, err := s.SaveMapping(ctx, FieldMapping{
			SheetName:   sheet,
			SheetHeader: col,
			AppFieldID:  field.ID,
			Description: "Auto-matched",
		}); err != nil {
			s.Logger.Warn("Smart match save failed",
				zap.String("sheet", sheet),
				zap.String("column", col),
				zap.Error(err),
			)
			continue
		}

		// Claimed fields leave the candidate pool immediately
		fields = append(fields[:matched], fields[matched+1:]...)
		created++
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionMatch, "mapping", sheet, map[string]common_models.Change{
		"created": {New: created},
	})

	return created, nil
}

// matchField returns the index of the first field matching the normalized
// column, honoring the three-tier priority, or -1.
func matchField(normCol string, fields []AppField) int {
	for i, f := range fields {
		if utils.NormalizeKey(f.Label) == normCol {
			return i
		}
	}
	for i, f := range fields {
		if utils.NormalizeKey(f.IDSuffix()) == normCol {
			return i
		}
	}
	for i, f := range fields {
		if suffix := utils.NormalizeKey(f.IDSuffix()); suffix != "" && strings.Contains(normCol, suffix) {
			return i
		}
	}
	return -1
}

// UnmappedColumns and UsedColumns partition the sheet's column set: their
// union is the full set and they are disjoint.
func (s *MappingServiceImpl) UnmappedColumns(ctx context.Context, sheet string) ([]string, error) {
	return s.partitionColumns(ctx, sheet, false)
}

func (s *MappingServiceImpl) UsedColumns(ctx context.Context, sheet string) ([]string, error) {
	return s.partitionColumns(ctx, sheet, true)
}

func (s *MappingServiceImpl) partitionColumns(ctx context.Context, sheet string, used bool) ([]string, error) {
	s.mu.Lock()
	snapshot := s.snapshot
	s.mu.Unlock()

	if snapshot == nil {
		refreshed, err := s.RefreshSchema(ctx)
		if err != nil {
			return nil, err
		}
		snapshot = refreshed
	}

	columns, ok := snapshot[sheet]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %q", sheet)
	}

	mappings, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	claimed := map[string]bool{}
	for _, m := range mappings {
		if m.SheetName == sheet {
			claimed[m.SheetHeader] = true
		}
	}

	out := []string{}
	for _, col := range columns {
		if claimed[col] == used {
			out = append(out, col)
		}
	}
	return out, nil
}

// UnmappedAppFields reports catalog entries not yet claimed by any mapping.
// Field claims are global: a field mapped in one sheet is unavailable in all
// others.
func (s *MappingServiceImpl) UnmappedAppFields(ctx context.Context) ([]AppField, error) {
	mappings, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	claimed := map[string]bool{}
	for _, m := range mappings {
		claimed[m.AppFieldID] = true
	}

	out := []AppField{}
	for _, f := range AppFields() {
		if !claimed[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}
