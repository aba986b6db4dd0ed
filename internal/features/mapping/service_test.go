package mapping

import (
	"context"
	"errors"
	"testing"

	"go-helpdesk/internal/bridge"
	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/system"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noopAudit discards audit writes in tests.
type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (noopAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func newTestService(store *bridge.MemStore) MappingService {
	return NewMappingService(
		NewMappingRepository(store),
		store,
		noopAudit{},
		system.NewHub(zap.NewNop()),
		zap.NewNop(),
	)
}

func TestSaveMappingValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		m       FieldMapping
		wantErr bool
	}{
		{
			name: "Valid mapping",
			m:    FieldMapping{SheetName: "Tickets", SheetHeader: "Ticket_ID", AppFieldID: "ticket.id"},
		},
		{
			name: "Whitespace is trimmed",
			m:    FieldMapping{SheetName: " Tickets ", SheetHeader: " Status ", AppFieldID: " ticket.status "},
		},
		{
			name:    "Missing sheet rejected",
			m:       FieldMapping{SheetHeader: "Status", AppFieldID: "ticket.status"},
			wantErr: true,
		},
		{
			name:    "Missing header rejected",
			m:       FieldMapping{SheetName: "Tickets", AppFieldID: "ticket.status"},
			wantErr: true,
		},
		{
			name:    "Unknown app field rejected",
			m:       FieldMapping{SheetName: "Tickets", SheetHeader: "Status", AppFieldID: "ticket.nonsense"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := bridge.NewMemStore()
			service := newTestService(store)

			saved, err := service.SaveMapping(ctx, tt.m)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, store.Mappings, "rejected mapping must not reach the store")
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, saved.MappingID, "create must assign an id")
			assert.Equal(t, "Tickets", saved.SheetName)
		})
	}
}

func TestSaveMappingRejectsConflicts(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	service := newTestService(store)

	first, err := service.SaveMapping(ctx, FieldMapping{
		SheetName: "Tickets", SheetHeader: "Ticket_ID", AppFieldID: "ticket.id",
	})
	require.NoError(t, err)

	// Same app field from a different column is rejected, never displaced
	_, err = service.SaveMapping(ctx, FieldMapping{
		SheetName: "Tickets", SheetHeader: "Request_Number", AppFieldID: "ticket.id",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), first.MappingID, "rejection must name the competing mapping")

	// Same column toward a different app field is rejected too
	_, err = service.SaveMapping(ctx, FieldMapping{
		SheetName: "Tickets", SheetHeader: "Ticket_ID", AppFieldID: "ticket.title",
	})
	assert.Error(t, err)

	// The original binding survives both rejections
	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "ticket.id", listed[0].AppFieldID)
	assert.Equal(t, "Ticket_ID", listed[0].SheetHeader)

	// Updating the existing mapping under its own id is not a conflict
	updated := first
	updated.Description = "Primary key"
	_, err = service.SaveMapping(ctx, updated)
	assert.NoError(t, err)
}

// Two administrators editing the same mapping race without coordination; the
// store keeps whichever save lands last, not a merge of both.
func TestConcurrentAdminSavesLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	service := newTestService(store)

	first, err := service.SaveMapping(ctx, FieldMapping{
		SheetName: "Tickets", SheetHeader: "Summary", AppFieldID: "ticket.title",
	})
	require.NoError(t, err)

	second := first
	second.SheetHeader = "Request_Title"
	second.Description = "Renamed column"
	_, err = service.SaveMapping(ctx, second)
	require.NoError(t, err)

	// Both the cache and the store hold only the second payload
	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Request_Title", listed[0].SheetHeader)
	assert.Equal(t, "Renamed column", listed[0].Description)

	stored, err := store.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Request_Title", stored[0].SheetHeader)
}

func TestListMappingsMarksCritical(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	service := newTestService(store)

	_, err := service.SaveMapping(ctx, FieldMapping{SheetName: "Tickets", SheetHeader: "Ticket_ID", AppFieldID: "ticket.id"})
	require.NoError(t, err)
	_, err = service.SaveMapping(ctx, FieldMapping{SheetName: "Tickets", SheetHeader: "Priority", AppFieldID: "ticket.priority"})
	require.NoError(t, err)

	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	byField := map[string]bool{}
	for _, m := range listed {
		byField[m.AppFieldID] = m.Critical
	}
	assert.True(t, byField["ticket.id"])
	assert.False(t, byField["ticket.priority"])
}

func TestDeleteMapping(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	service := newTestService(store)

	saved, err := service.SaveMapping(ctx, FieldMapping{SheetName: "Tickets", SheetHeader: "Ticket_ID", AppFieldID: "ticket.id"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteMapping(ctx, saved.MappingID))

	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	err = service.DeleteMapping(ctx, "m-999")
	assert.ErrorIs(t, err, bridge.ErrNotFound)
}

func TestColumnPartition(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	store.Sheets["Tickets"] = []string{"Ticket_ID", "Summary", "Status", "Legacy_Notes"}
	service := newTestService(store)

	_, err := service.SaveMapping(ctx, FieldMapping{SheetName: "Tickets", SheetHeader: "Ticket_ID", AppFieldID: "ticket.id"})
	require.NoError(t, err)
	_, err = service.SaveMapping(ctx, FieldMapping{SheetName: "Tickets", SheetHeader: "Summary", AppFieldID: "ticket.title"})
	require.NoError(t, err)

	unmapped, err := service.UnmappedColumns(ctx, "Tickets")
	require.NoError(t, err)
	used, err := service.UsedColumns(ctx, "Tickets")
	require.NoError(t, err)

	assert.Equal(t, []string{"Status", "Legacy_Notes"}, unmapped)
	assert.Equal(t, []string{"Ticket_ID", "Summary"}, used)

	// Disjoint union covers every column exactly once
	all := append(append([]string{}, used...), unmapped...)
	assert.ElementsMatch(t, store.Sheets["Tickets"], all)

	_, err = service.UnmappedColumns(ctx, "NoSuchSheet")
	assert.Error(t, err)
}

func TestUnmappedAppFieldsClaimsAreGlobal(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	service := newTestService(store)

	_, err := service.SaveMapping(ctx, FieldMapping{SheetName: "Users", SheetHeader: "Email", AppFieldID: "user.email"})
	require.NoError(t, err)

	fields, err := service.UnmappedAppFields(ctx)
	require.NoError(t, err)
	for _, f := range fields {
		assert.NotEqual(t, "user.email", f.ID, "a field claimed in one sheet is unavailable everywhere")
	}
	assert.Len(t, fields, len(AppFields())-1)
}

func TestRefreshSchemaFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	store.Sheets["Tickets"] = []string{"Ticket_ID"}
	service := newTestService(store)

	_, err := service.RefreshSchema(ctx)
	require.NoError(t, err)
	require.Contains(t, service.Schema(), "Tickets")

	store.Err = errors.New("bridge unreachable")
	_, err = service.RefreshSchema(ctx)
	assert.Error(t, err)

	// The stale snapshot survives the failed refresh
	assert.Contains(t, service.Schema(), "Tickets")
}

func TestAddColumn(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	store.Sheets["Tickets"] = []string{"Ticket_ID"}
	service := newTestService(store)

	result, err := service.AddColumn(ctx, "Tickets", "Priority")
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Snapshot reflects the new column without an explicit refresh
	assert.Contains(t, service.Schema()["Tickets"], "Priority")

	// Duplicate header is a logical rejection, not a transport error
	result, err = service.AddColumn(ctx, "Tickets", "Priority")
	require.NoError(t, err)
	assert.False(t, result.Success)

	_, err = service.AddColumn(ctx, "Tickets", "  ")
	assert.Error(t, err)
}

func TestSmartMatch(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	store.Sheets["Tickets"] = []string{"Ticket_ID", "TicketTitle", "Status", "Legacy_Notes"}
	service := newTestService(store)

	created, err := service.SmartMatch(ctx, "Tickets")
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)

	byColumn := map[string]string{}
	for _, m := range listed {
		byColumn[m.SheetHeader] = m.AppFieldID
	}
	assert.Equal(t, "ticket.id", byColumn["Ticket_ID"])
	assert.Equal(t, "ticket.title", byColumn["TicketTitle"])
	assert.Equal(t, "ticket.status", byColumn["Status"])
	assert.NotContains(t, byColumn, "Legacy_Notes")

	// Running it again finds nothing left to match
	created, err = service.SmartMatch(ctx, "Tickets")
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestSmartMatchContainsTier(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	store.Sheets["Users"] = []string{"Staff_Email_Address"}
	service := newTestService(store)

	created, err := service.SmartMatch(ctx, "Users")
	require.NoError(t, err)
	require.Equal(t, 1, created)

	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "user.email", listed[0].AppFieldID)
}

func TestSmartMatchNeverDoubleClaimsAField(t *testing.T) {
	ctx := context.Background()
	store := bridge.NewMemStore()
	// Both columns normalize onto user.access_code; only the first may claim it
	store.Sheets["Users"] = []string{"Access Code", "AccessCode"}
	service := newTestService(store)

	created, err := service.SmartMatch(ctx, "Users")
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	listed, err := service.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Access Code", listed[0].SheetHeader)
	assert.Equal(t, "user.access_code", listed[0].AppFieldID)
}
