package role

import (
	"errors"
	"fmt"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/internal/features/permission"
)

// Role is the store record. Name doubles as the record key and as the foreign
// key users reference, so renaming is delete+create from the caller's side.
type Role = bridge.Role

var ErrEmptyName = errors.New("role name is required")

// Validate enforces the construction-time invariants: non-empty name and a
// permission set drawn only from the static catalog.
func Validate(r Role) error {
	if r.Name == "" {
		return ErrEmptyName
	}
	for _, p := range r.Permissions {
		if !permission.IsKnown(permission.Permission(p)) {
			return fmt.Errorf("unknown permission %q", p)
		}
	}
	return nil
}
