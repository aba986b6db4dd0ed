package user

import "strings"

// UsersSheet is the sheet user records live in.
const UsersSheet = "Users"

// User is a typed record translated from a Users sheet row through the field
// mapping engine.
type User struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`        // primary role name
	ExtraRoles []string `json:"extra_roles"` // additional role names
	AccessCode string   `json:"-"`
}

// RoleNames returns the primary role plus any additional ones. The effective
// permission set is the union across all of them; names that resolve to no
// defined role contribute nothing.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.ExtraRoles)+1)
	if u.Role != "" {
		names = append(names, u.Role)
	}
	names = append(names, u.ExtraRoles...)
	return names
}

// ParseRoleList splits a comma-delimited role cell.
func ParseRoleList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
