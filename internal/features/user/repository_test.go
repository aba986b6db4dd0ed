package user

import (
	"context"
	"testing"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/internal/features/mapping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(mapped bool) (UserRepository, *bridge.MemStore) {
	store := bridge.NewMemStore()
	if mapped {
		store.Mappings = []bridge.FieldMapping{
			{MappingID: "m-1", SheetName: UsersSheet, SheetHeader: "Email", AppFieldID: "user.email"},
			{MappingID: "m-2", SheetName: UsersSheet, SheetHeader: "Name", AppFieldID: "user.name"},
			{MappingID: "m-3", SheetName: UsersSheet, SheetHeader: "Role", AppFieldID: "user.role"},
			{MappingID: "m-4", SheetName: UsersSheet, SheetHeader: "Extra", AppFieldID: "user.extra_roles"},
		}
	}
	store.Rows[UsersSheet] = []bridge.Row{
		{"Email": "pat@school.edu", "Name": "Pat", "Role": "Technician", "Extra": "Auditor, Custodian"},
		{"Email": "sam@school.edu", "Name": "Sam", "Role": "Teacher", "Extra": ""},
		{"Email": "", "Name": "Orphan row", "Role": "Teacher"},
	}
	return NewUserRepository(store, mapping.NewMappingRepository(store)), store
}

func TestListRequiresEmailMapping(t *testing.T) {
	repo, _ := newTestRepo(false)
	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user.email")
}

func TestListSkipsRowsWithoutEmail(t *testing.T) {
	repo, _ := newTestRepo(true)
	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "pat@school.edu", users[0].Email)
	assert.Equal(t, []string{"Auditor", "Custodian"}, users[0].ExtraRoles)
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	repo, _ := newTestRepo(true)

	found, err := repo.FindByEmail(context.Background(), "PAT@School.EDU")
	require.NoError(t, err)
	assert.Equal(t, "Pat", found.Name)

	_, err = repo.FindByEmail(context.Background(), "nobody@school.edu")
	assert.ErrorIs(t, err, bridge.ErrNotFound)
}

func TestEmailsWithRole(t *testing.T) {
	repo, _ := newTestRepo(true)
	ctx := context.Background()

	emails, err := repo.EmailsWithRole(ctx, "Technician")
	require.NoError(t, err)
	assert.Equal(t, []string{"pat@school.edu"}, emails)

	// Extra roles count as references too
	emails, err = repo.EmailsWithRole(ctx, "Auditor")
	require.NoError(t, err)
	assert.Equal(t, []string{"pat@school.edu"}, emails)

	emails, err = repo.EmailsWithRole(ctx, "Ghost")
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestRoleNames(t *testing.T) {
	tests := []struct {
		name string
		user User
		want []string
	}{
		{"Primary only", User{Role: "Teacher"}, []string{"Teacher"}},
		{"Primary plus extras", User{Role: "Technician", ExtraRoles: []string{"Auditor"}}, []string{"Technician", "Auditor"}},
		{"No primary", User{ExtraRoles: []string{"Auditor"}}, []string{"Auditor"}},
		{"Nothing", User{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.RoleNames())
		})
	}
}

func TestParseRoleList(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []string
	}{
		{"Empty", "", nil},
		{"Whitespace only", "  ", nil},
		{"Single", "Auditor", []string{"Auditor"}},
		{"Comma delimited with spaces", "Auditor, Custodian ,Technician", []string{"Auditor", "Custodian", "Technician"}},
		{"Trailing comma", "Auditor,", []string{"Auditor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoleList(tt.cell))
		})
	}
}
