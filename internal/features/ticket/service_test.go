package ticket

import (
	"context"
	"strings"
	"testing"

	"go-helpdesk/internal/bridge"
	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/mapping"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/features/role"
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

type noFinder struct{}

func (noFinder) EmailsWithRole(ctx context.Context, roleName string) ([]string, error) {
	return nil, nil
}

func newTestStore() *bridge.MemStore {
	store := bridge.NewMemStore()

	store.Mappings = []bridge.FieldMapping{
		{MappingID: "m-1", SheetName: TicketsSheet, SheetHeader: "Ticket_ID", AppFieldID: "ticket.id"},
		{MappingID: "m-2", SheetName: TicketsSheet, SheetHeader: "Title", AppFieldID: "ticket.title"},
		{MappingID: "m-3", SheetName: TicketsSheet, SheetHeader: "Status", AppFieldID: "ticket.status"},
		{MappingID: "m-4", SheetName: TicketsSheet, SheetHeader: "Submitter", AppFieldID: "ticket.submitter"},
		{MappingID: "m-5", SheetName: TicketsSheet, SheetHeader: "Assignee", AppFieldID: "ticket.assignee"},
		{MappingID: "m-6", SheetName: TicketsSheet, SheetHeader: "Comments", AppFieldID: "ticket.comments"},
	}

	store.Roles = []bridge.Role{
		{Name: "Admin", Permissions: []string{string(permission.ViewAllTickets), string(permission.CloseTickets)}},
		{Name: "Technician", Permissions: []string{
			string(permission.ViewAssignedTickets),
			string(permission.ClaimTickets),
			string(permission.CommentTickets),
		}},
		{Name: "Teacher", Permissions: []string{string(permission.SubmitTickets)}},
	}

	store.Rows[TicketsSheet] = []bridge.Row{
		{"Ticket_ID": "TKT-AAA11111", "Title": "Projector dead", "Status": StatusOpen, "Submitter": "teacher@school.edu", "Assignee": ""},
		{"Ticket_ID": "TKT-BBB22222", "Title": "Leaky sink", "Status": StatusClaimed, "Submitter": "other@school.edu", "Assignee": "tech@school.edu"},
		{"Ticket_ID": "TKT-CCC33333", "Title": "Wifi down in gym", "Status": StatusOpen, "Submitter": "other@school.edu", "Assignee": ""},
	}

	return store
}

func newTestService(store *bridge.MemStore) TicketService {
	hub := system.NewHub(zap.NewNop())
	roleService := role.NewRoleService(role.NewRoleRepository(store), noFinder{}, noopAudit{}, hub, zap.NewNop())
	repo := NewTicketRepository(store, mapping.NewMappingRepository(store))
	return NewTicketService(repo, roleService, noopAudit{}, hub, zap.NewNop())
}

func TestListTicketsVisibility(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newTestStore())

	tests := []struct {
		name    string
		viewer  Viewer
		wantIDs []string
	}{
		{
			name:    "Admin sees everything",
			viewer:  Viewer{Email: "admin@school.edu", Roles: []string{"Admin"}},
			wantIDs: []string{"TKT-AAA11111", "TKT-BBB22222", "TKT-CCC33333"},
		},
		{
			name:    "Technician sees assigned only",
			viewer:  Viewer{Email: "tech@school.edu", Roles: []string{"Technician"}},
			wantIDs: []string{"TKT-BBB22222"},
		},
		{
			name:    "Teacher sees own submissions only",
			viewer:  Viewer{Email: "teacher@school.edu", Roles: []string{"Teacher"}},
			wantIDs: []string{"TKT-AAA11111"},
		},
		{
			name:    "Unknown role sees nothing",
			viewer:  Viewer{Email: "ghost@school.edu", Roles: []string{"Ghost"}},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets, err := service.ListTickets(ctx, tt.viewer)
			require.NoError(t, err)

			ids := []string{}
			for _, tk := range tickets {
				ids = append(ids, tk.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestSubmitTicket(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	service := newTestService(store)
	viewer := Viewer{Email: "teacher@school.edu", Roles: []string{"Teacher"}}

	created, err := service.SubmitTicket(ctx, viewer, Ticket{Title: "Door handle broken"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "TKT-"))
	assert.Equal(t, StatusOpen, created.Status)
	assert.Equal(t, "teacher@school.edu", created.Submitter)
	assert.Empty(t, created.Assignee)
	assert.Len(t, store.Rows[TicketsSheet], 4)

	_, err = service.SubmitTicket(ctx, viewer, Ticket{Title: "   "})
	assert.Error(t, err)
}

func TestClaimTicket(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newTestStore())
	tech := Viewer{Email: "tech@school.edu", Roles: []string{"Technician"}}

	claimed, err := service.ClaimTicket(ctx, tech, "TKT-AAA11111")
	require.NoError(t, err)
	assert.Equal(t, "tech@school.edu", claimed.Assignee)
	assert.Equal(t, StatusClaimed, claimed.Status)

	// A second claim loses; the first assignee keeps the ticket
	rival := Viewer{Email: "rival@school.edu", Roles: []string{"Technician"}}
	_, err = service.ClaimTicket(ctx, rival, "TKT-AAA11111")
	require.ErrorIs(t, err, ErrAlreadyClaimed)

	after, err := service.GetTicket(ctx, "TKT-AAA11111")
	require.NoError(t, err)
	assert.Equal(t, "tech@school.edu", after.Assignee)

	_, err = service.ClaimTicket(ctx, tech, "TKT-MISSING")
	assert.ErrorIs(t, err, bridge.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newTestStore())
	admin := Viewer{Email: "admin@school.edu", Roles: []string{"Admin"}}

	updated, err := service.UpdateStatus(ctx, admin, "TKT-BBB22222", StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, updated.Status)

	_, err = service.UpdateStatus(ctx, admin, "TKT-BBB22222", "Reopened")
	assert.Error(t, err)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newTestStore())
	tech := Viewer{Email: "tech@school.edu", Roles: []string{"Technician"}}

	updated, err := service.AddComment(ctx, tech, "TKT-BBB22222", "Ordered a replacement valve")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "tech@school.edu", updated.Comments[0].Author)

	// The thread persists through the sheet cell round-trip
	again, err := service.AddComment(ctx, tech, "TKT-BBB22222", "Valve installed")
	require.NoError(t, err)
	require.Len(t, again.Comments, 2)
	assert.Equal(t, "Ordered a replacement valve", again.Comments[0].Text)

	_, err = service.AddComment(ctx, tech, "TKT-BBB22222", "  ")
	assert.Error(t, err)
}
