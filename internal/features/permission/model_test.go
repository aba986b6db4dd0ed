package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogIsWellFormed(t *testing.T) {
	defs := Catalog()
	assert.NotEmpty(t, defs)

	seen := map[Permission]bool{}
	validCategories := map[Category]bool{}
	for _, c := range Categories() {
		validCategories[c] = true
	}

	for _, d := range defs {
		assert.False(t, seen[d.ID], "duplicate permission %s", d.ID)
		seen[d.ID] = true
		assert.True(t, validCategories[d.Category], "permission %s has unknown category %s", d.ID, d.Category)
		assert.NotEmpty(t, d.Description, "permission %s has no description", d.ID)
		assert.True(t, IsKnown(d.ID))
	}

	assert.False(t, IsKnown("DELETE_EVERYTHING"))
}

func TestByCategoryPartitionsCatalog(t *testing.T) {
	total := 0
	for _, c := range Categories() {
		total += len(ByCategory(c))
	}
	assert.Equal(t, len(Catalog()), total)
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name string
		set  []Permission
		p    Permission
		want []Permission
	}{
		{
			name: "Add to empty set",
			set:  nil,
			p:    SubmitTickets,
			want: []Permission{SubmitTickets},
		},
		{
			name: "Remove present permission",
			set:  []Permission{SubmitTickets, ClaimTickets},
			p:    SubmitTickets,
			want: []Permission{ClaimTickets},
		},
		{
			name: "Add absent permission keeps others",
			set:  []Permission{ViewAllTickets},
			p:    ManageRoles,
			want: []Permission{ViewAllTickets, ManageRoles},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Toggle(tt.set, tt.p)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	set := []Permission{SubmitTickets, ViewAssignedTickets, ClaimTickets}
	twice := Toggle(Toggle(set, ManageRoles), ManageRoles)
	assert.ElementsMatch(t, set, twice)

	// Toggling an existing member twice restores it as well
	twice = Toggle(Toggle(set, ClaimTickets), ClaimTickets)
	assert.ElementsMatch(t, set, twice)
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	set := []Permission{SubmitTickets, ClaimTickets}
	_ = Toggle(set, SubmitTickets)
	assert.Equal(t, []Permission{SubmitTickets, ClaimTickets}, set)
}

func TestVisibleViews(t *testing.T) {
	held := func(perms ...Permission) func(Permission) bool {
		set := map[Permission]bool{}
		for _, p := range perms {
			set[p] = true
		}
		return func(p Permission) bool { return set[p] }
	}

	tests := []struct {
		name string
		has  func(Permission) bool
		want []string
	}{
		{
			name: "Submitter sees only the submit view",
			has:  held(SubmitTickets),
			want: []string{"submit"},
		},
		{
			name: "Any one of the listed permissions reveals the view",
			has:  held(AssignTickets),
			want: []string{"triage"},
		},
		{
			name: "Technician profile",
			has:  held(ViewAssignedTickets, ClaimTickets, ViewTasks),
			want: []string{"my-queue", "tasks"},
		},
		{
			name: "No permissions, no views",
			has:  held(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibleViews(tt.has))
		})
	}
}

func TestCanSeeView(t *testing.T) {
	has := func(p Permission) bool { return p == ManageRoles }

	assert.True(t, CanSeeView("roles", has))
	assert.False(t, CanSeeView("audit", has))
	assert.False(t, CanSeeView("no-such-view", has))
}

func TestViewRulesOnlyReferenceKnownPermissions(t *testing.T) {
	for _, rule := range ViewRules() {
		assert.NotEmpty(t, rule.AnyOf, "view %s has no revealing permissions", rule.View)
		for _, p := range rule.AnyOf {
			assert.True(t, IsKnown(p), "view %s references unknown permission %s", rule.View, p)
		}
	}
}
