package mapping

import (
	"context"
	"sync"

	"go-helpdesk/internal/bridge"
)

// MappingRepository is the explicit mapping catalog: a cache over the store
// with a refresh contract. Mutations write through the store first; the cache
// is only updated after the store confirms, so a failed call leaves local
// state untouched.
type MappingRepository interface {
	List(ctx context.Context) ([]FieldMapping, error)
	Save(ctx context.Context, m FieldMapping) (FieldMapping, error)
	Delete(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
}

type MappingRepositoryImpl struct {
	Store bridge.Store

	mu       sync.Mutex
	mappings []FieldMapping
	loaded   bool
}

func NewMappingRepository(store bridge.Store) MappingRepository {
	return &MappingRepositoryImpl{Store: store}
}

func (r *MappingRepositoryImpl) Refresh(ctx context.Context) error {
	mappings, err := r.Store.ListMappings(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.mappings = mappings
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *MappingRepositoryImpl) ensureLoaded(ctx context.Context) error {
	r.mu.Lock()
	loaded := r.loaded
	r.mu.Unlock()
	if loaded {
		return nil
	}
	return r.Refresh(ctx)
}

func (r *MappingRepositoryImpl) List(ctx context.Context) ([]FieldMapping, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FieldMapping(nil), r.mappings...), nil
}

func (r *MappingRepositoryImpl) Save(ctx context.Context, m FieldMapping) (FieldMapping, error) {
	saved, err := r.Store.SaveMapping(ctx, m)
	if err != nil {
		return FieldMapping{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.mappings {
		if existing.MappingID == saved.MappingID {
			r.mappings[i] = saved
			return saved, nil
		}
	}
	r.mappings = append(r.mappings, saved)
	return saved, nil
}

func (r *MappingRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.Store.DeleteMapping(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.mappings {
		if existing.MappingID == id {
			r.mappings = append(r.mappings[:i], r.mappings[i+1:]...)
			break
		}
	}
	return nil
}
