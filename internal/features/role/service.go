package role

import (
	"context"
	"fmt"
	"strings"

	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/features/system"

	"go.uber.org/zap"
)

// UserFinder reports which users still reference a role. Implemented by the
// user repository and wired in through an adapter to avoid an import cycle.
type UserFinder interface {
	EmailsWithRole(ctx context.Context, roleName string) ([]string, error)
}

type RoleService interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	SaveRole(ctx context.Context, role Role) error
	DeleteRole(ctx context.Context, name string) error
	Refresh(ctx context.Context) error

	// HasPermission resolves role names to their permission sets and tests
	// membership. It never errors: unknown roles contribute nothing and any
	// lookup failure resolves to "no access".
	HasPermission(ctx context.Context, roleNames []string, p permission.Permission) bool
	EffectivePermissions(ctx context.Context, roleNames []string) []permission.Permission
}

type RoleServiceImpl struct {
	RoleRepo     RoleRepository
	UserFinder   UserFinder
	AuditService audit.AuditService
	Hub          *system.Hub
	Logger       *zap.Logger
}

func NewRoleService(
	roleRepo RoleRepository,
	userFinder UserFinder,
	auditService audit.AuditService,
	hub *system.Hub,
	logger *zap.Logger,
) RoleService {
	return &RoleServiceImpl{
		RoleRepo:     roleRepo,
		UserFinder:   userFinder,
		AuditService: auditService,
		Hub:          hub,
		Logger:       logger,
	}
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}

func (s *RoleServiceImpl) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.RoleRepo.FindByName(ctx, name)
}

func (s *RoleServiceImpl) Refresh(ctx context.Context) error {
	return s.RoleRepo.Refresh(ctx)
}

// SaveRole upserts by role name. Invariant violations are rejected before any
// remote round-trip.
func (s *RoleServiceImpl) SaveRole(ctx context.Context, role Role) error {
	role.Name = strings.TrimSpace(role.Name)
	role.Permissions = dedupe(role.Permissions)

	if err := Validate(role); err != nil {
		return err
	}

	if err := s.RoleRepo.Save(ctx, role); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", role.Name, map[string]common_models.Change{
		"permissions": {New: role.Permissions},
	})
	s.Hub.Publish("role.saved", role.Name)

	return nil
}

// DeleteRole removes a role definition. Deletion is blocked while any user
// still references the role: the alternative (users silently degrading to
// zero permissions) is legal but surprising, so we make the operator
// reassign first.
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyName
	}

	emails, err := s.UserFinder.EmailsWithRole(ctx, name)
	if err != nil {
		return fmt.Errorf("check role references: %w", err)
	}
	if len(emails) > 0 {
		return fmt.Errorf("cannot delete role %q: still assigned to %s", name, strings.Join(emails, ", "))
	}

	if err := s.RoleRepo.Delete(ctx, name); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "role", name, nil)
	s.Hub.Publish("role.deleted", name)

	return nil
}

func (s *RoleServiceImpl) HasPermission(ctx context.Context, roleNames []string, p permission.Permission) bool {
	for _, name := range roleNames {
		role, err := s.RoleRepo.FindByName(ctx, name)
		if err != nil {
			// Unresolved role reference degrades to no permissions
			continue
		}
		for _, held := range role.Permissions {
			if permission.Permission(held) == p {
				return true
			}
		}
	}
	return false
}

// EffectivePermissions returns the union of the permission sets of every
// resolvable role, in catalog order.
func (s *RoleServiceImpl) EffectivePermissions(ctx context.Context, roleNames []string) []permission.Permission {
	held := map[permission.Permission]bool{}
	for _, name := range roleNames {
		role, err := s.RoleRepo.FindByName(ctx, name)
		if err != nil {
			continue
		}
		for _, p := range role.Permissions {
			held[permission.Permission(p)] = true
		}
	}

	var out []permission.Permission
	for _, def := range permission.Catalog() {
		if held[def.ID] {
			out = append(out, def.ID)
		}
	}
	return out
}

func dedupe(perms []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
