package bridge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWorkbook(t *testing.T) (*WorkbookStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helpdesk.xlsx")
	ws, err := NewWorkbookStore(path, zap.NewNop())
	require.NoError(t, err)
	return ws, path
}

func addDataSheet(t *testing.T, ws *WorkbookStore, name string, headers ...string) {
	t.Helper()
	_, err := ws.file.NewSheet(name)
	require.NoError(t, err)
	for _, h := range headers {
		result, err := ws.AddColumn(context.Background(), name, h)
		require.NoError(t, err)
		require.True(t, result.Success, result.Message)
	}
}

func TestFetchSchemaHidesReservedSheets(t *testing.T) {
	ws, _ := newTestWorkbook(t)
	addDataSheet(t, ws, "Tickets", "Ticket_ID", "Title", "Status")
	addDataSheet(t, ws, "Users", "Email", "Role")

	schema, err := ws.FetchSchema(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Ticket_ID", "Title", "Status"}, schema["Tickets"])
	assert.Equal(t, []string{"Email", "Role"}, schema["Users"])
	assert.NotContains(t, schema, mappingsSheet)
	assert.NotContains(t, schema, rolesSheet)
	assert.NotContains(t, schema, "Sheet1")
}

func TestAddColumnRejectsDuplicateAndMissingSheet(t *testing.T) {
	ws, _ := newTestWorkbook(t)
	addDataSheet(t, ws, "Tickets", "Ticket_ID")
	ctx := context.Background()

	result, err := ws.AddColumn(ctx, "Tickets", "Ticket_ID")
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = ws.AddColumn(ctx, "Assets", "Asset_ID")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestMappingPersistence(t *testing.T) {
	ws, path := newTestWorkbook(t)
	ctx := context.Background()

	saved, err := ws.SaveMapping(ctx, FieldMapping{
		SheetName:   "Tickets",
		SheetHeader: "Ticket_ID",
		AppFieldID:  "ticket.id",
		Description: "Primary key",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.MappingID, "create assigns an id")

	// Updating under the same id replaces the row instead of appending
	saved.Description = "Row key"
	_, err = ws.SaveMapping(ctx, saved)
	require.NoError(t, err)

	mappings, err := ws.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "Row key", mappings[0].Description)

	// Records survive reopening the file
	reopened, err := NewWorkbookStore(path, zap.NewNop())
	require.NoError(t, err)
	mappings, err = reopened.ListMappings(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, saved.MappingID, mappings[0].MappingID)

	require.NoError(t, reopened.DeleteMapping(ctx, saved.MappingID))
	mappings, err = reopened.ListMappings(ctx)
	require.NoError(t, err)
	assert.Empty(t, mappings)

	err = reopened.DeleteMapping(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRolePersistence(t *testing.T) {
	ws, _ := newTestWorkbook(t)
	ctx := context.Background()

	require.NoError(t, ws.SaveRole(ctx, Role{
		Name:        "Technician",
		Description: "Works the queue",
		Permissions: []string{"VIEW_ASSIGNED_TICKETS", "CLAIM_TICKETS"},
	}))

	roles, err := ws.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"VIEW_ASSIGNED_TICKETS", "CLAIM_TICKETS"}, roles[0].Permissions)

	// Upsert by name
	require.NoError(t, ws.SaveRole(ctx, Role{Name: "Technician", Permissions: []string{"CLAIM_TICKETS"}}))
	roles, err = ws.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"CLAIM_TICKETS"}, roles[0].Permissions)

	require.NoError(t, ws.DeleteRole(ctx, "Technician"))
	err = ws.DeleteRole(ctx, "Technician")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRowReadWriteUpdate(t *testing.T) {
	ws, _ := newTestWorkbook(t)
	ctx := context.Background()
	addDataSheet(t, ws, "Tickets", "Ticket_ID", "Title", "Status")

	require.NoError(t, ws.AppendRow(ctx, "Tickets", Row{
		"Ticket_ID": "TKT-1", "Title": "Projector dead", "Status": "Open",
	}))
	require.NoError(t, ws.AppendRow(ctx, "Tickets", Row{
		"Ticket_ID": "TKT-2", "Title": "Leaky sink", "Status": "Open",
	}))

	rows, err := ws.ReadRows(ctx, "Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Projector dead", rows[0]["Title"])

	require.NoError(t, ws.UpdateRow(ctx, "Tickets", "Ticket_ID", "TKT-2", Row{"Status": "Claimed"}))

	rows, err = ws.ReadRows(ctx, "Tickets")
	require.NoError(t, err)
	assert.Equal(t, "Claimed", rows[1]["Status"])
	assert.Equal(t, "Leaky sink", rows[1]["Title"], "untouched cells keep their value")

	err = ws.UpdateRow(ctx, "Tickets", "Ticket_ID", "TKT-99", Row{"Status": "Closed"})
	assert.ErrorIs(t, err, ErrNotFound)
}
