package user

import (
	"context"
	"fmt"
	"strings"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/internal/features/mapping"
)

// UserRepository reads user records from the Users sheet. Rows are raw
// header-keyed cells; the field mapping engine decides which column holds
// which user field, so renaming a spreadsheet column only requires remapping,
// not a code change.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailsWithRole(ctx context.Context, roleName string) ([]string, error)
}

type UserRepositoryImpl struct {
	Store       bridge.Store
	MappingRepo mapping.MappingRepository
}

func NewUserRepository(store bridge.Store, mappingRepo mapping.MappingRepository) UserRepository {
	return &UserRepositoryImpl{
		Store:       store,
		MappingRepo: mappingRepo,
	}
}

// headers resolves the sheet column for each user field. Unmapped fields
// resolve to "", which leaves the translated field empty.
func (r *UserRepositoryImpl) headers(ctx context.Context) (map[string]string, error) {
	mappings, err := r.MappingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, m := range mappings {
		if m.SheetName == UsersSheet {
			out[m.AppFieldID] = m.SheetHeader
		}
	}
	return out, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]User, error) {
	headers, err := r.headers(ctx)
	if err != nil {
		return nil, err
	}
	if headers["user.email"] == "" {
		return nil, fmt.Errorf("user.email is not mapped for sheet %q", UsersSheet)
	}

	rows, err := r.Store.ReadRows(ctx, UsersSheet)
	if err != nil {
		return nil, err
	}

	var users []User
	for _, row := range rows {
		u := translate(row, headers)
		if u.Email == "" {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			copied := u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", bridge.ErrNotFound, email)
}

func (r *UserRepositoryImpl) EmailsWithRole(ctx context.Context, roleName string) ([]string, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var emails []string
	for _, u := range users {
		for _, name := range u.RoleNames() {
			if name == roleName {
				emails = append(emails, u.Email)
				break
			}
		}
	}
	return emails, nil
}

func translate(row bridge.Row, headers map[string]string) User {
	get := func(fieldID string) string {
		h := headers[fieldID]
		if h == "" {
			return ""
		}
		return strings.TrimSpace(row[h])
	}

	return User{
		Email:      get("user.email"),
		Name:       get("user.name"),
		Role:       get("user.role"),
		ExtraRoles: ParseRoleList(get("user.extra_roles")),
		AccessCode: get("user.access_code"),
	}
}
