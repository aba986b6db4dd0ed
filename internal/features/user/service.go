package user

import (
	"context"

	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/features/role"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// HasPermission never errors; a user whose roles cannot be resolved has
	// no permissions.
	HasPermission(ctx context.Context, u User, p permission.Permission) bool
	EffectivePermissions(ctx context.Context, u User) []permission.Permission
	VisibleViews(ctx context.Context, u User) []string
}

type UserServiceImpl struct {
	Repo        UserRepository
	RoleService role.RoleService
}

func NewUserService(repo UserRepository, roleService role.RoleService) UserService {
	return &UserServiceImpl{
		Repo:        repo,
		RoleService: roleService,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}

func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.Repo.FindByEmail(ctx, email)
}

func (s *UserServiceImpl) HasPermission(ctx context.Context, u User, p permission.Permission) bool {
	return s.RoleService.HasPermission(ctx, u.RoleNames(), p)
}

func (s *UserServiceImpl) EffectivePermissions(ctx context.Context, u User) []permission.Permission {
	return s.RoleService.EffectivePermissions(ctx, u.RoleNames())
}

func (s *UserServiceImpl) VisibleViews(ctx context.Context, u User) []string {
	return permission.VisibleViews(func(p permission.Permission) bool {
		return s.RoleService.HasPermission(ctx, u.RoleNames(), p)
	})
}
