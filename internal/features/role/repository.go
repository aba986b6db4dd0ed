package role

import (
	"context"
	"fmt"
	"sync"

	"go-helpdesk/internal/bridge"
)

// RoleRepository is the explicit role catalog: a cache over the store with a
// refresh contract, injected wherever roles are read. Mutations write through
// the store and then update the cache, so last write wins across concurrent
// administrators.
type RoleRepository interface {
	List(ctx context.Context) ([]Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	Save(ctx context.Context, role Role) error
	Delete(ctx context.Context, name string) error
	Refresh(ctx context.Context) error
}

type RoleRepositoryImpl struct {
	Store bridge.Store

	mu     sync.Mutex
	roles  []Role
	loaded bool
}

func NewRoleRepository(store bridge.Store) RoleRepository {
	return &RoleRepositoryImpl{Store: store}
}

// Refresh replaces the cache with the store's current role list. On failure
// the previous cache is left untouched.
func (r *RoleRepositoryImpl) Refresh(ctx context.Context) error {
	roles, err := r.Store.ListRoles(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.roles = roles
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *RoleRepositoryImpl) ensureLoaded(ctx context.Context) error {
	r.mu.Lock()
	loaded := r.loaded
	r.mu.Unlock()
	if loaded {
		return nil
	}
	return r.Refresh(ctx)
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]Role, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Role(nil), r.roles...), nil
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*Role, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			copied := role
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: role %s", bridge.ErrNotFound, name)
}

func (r *RoleRepositoryImpl) Save(ctx context.Context, role Role) error {
	if err := r.Store.SaveRole(ctx, role); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.roles {
		if existing.Name == role.Name {
			r.roles[i] = role
			return nil
		}
	}
	r.roles = append(r.roles, role)
	return nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, name string) error {
	if err := r.Store.DeleteRole(ctx, name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.roles {
		if existing.Name == name {
			r.roles = append(r.roles[:i], r.roles[i+1:]...)
			break
		}
	}
	return nil
}
