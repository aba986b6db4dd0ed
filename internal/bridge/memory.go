package bridge

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store used by tests. Setting Err makes every call
// fail with it, which is how tests simulate transport failures.
type MemStore struct {
	mu       sync.Mutex
	Sheets   map[string][]string // sheet -> ordered headers
	Rows     map[string][]Row
	Mappings []FieldMapping
	Roles    []Role
	Err      error
	nextID   int
}

func NewMemStore() *MemStore {
	return &MemStore{
		Sheets: map[string][]string{},
		Rows:   map[string][]Row{},
	}
}

func (s *MemStore) FetchSchema(ctx context.Context) (Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	schema := Schema{}
	for sheet, headers := range s.Sheets {
		schema[sheet] = append([]string(nil), headers...)
	}
	return schema, nil
}

func (s *MemStore) ListMappings(ctx context.Context) ([]FieldMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]FieldMapping(nil), s.Mappings...), nil
}

func (s *MemStore) SaveMapping(ctx context.Context, m FieldMapping) (FieldMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return FieldMapping{}, s.Err
	}
	if m.MappingID == "" {
		s.nextID++
		m.MappingID = fmt.Sprintf("m-%d", s.nextID)
	}
	for i, existing := range s.Mappings {
		if existing.MappingID == m.MappingID {
			s.Mappings[i] = m
			return m, nil
		}
	}
	s.Mappings = append(s.Mappings, m)
	return m, nil
}

func (s *MemStore) DeleteMapping(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, m := range s.Mappings {
		if m.MappingID == id {
			s.Mappings = append(s.Mappings[:i], s.Mappings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: mapping %s", ErrNotFound, id)
}

func (s *MemStore) AddColumn(ctx context.Context, sheet, header string) (AddColumnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return AddColumnResult{}, s.Err
	}
	headers, ok := s.Sheets[sheet]
	if !ok {
		return AddColumnResult{Success: false, Message: fmt.Sprintf("sheet %q does not exist", sheet)}, nil
	}
	for _, h := range headers {
		if h == header {
			return AddColumnResult{Success: false, Message: fmt.Sprintf("column %q already exists", header)}, nil
		}
	}
	s.Sheets[sheet] = append(headers, header)
	return AddColumnResult{Success: true, Message: fmt.Sprintf("column %q created", header)}, nil
}

func (s *MemStore) ListRoles(ctx context.Context) ([]Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]Role(nil), s.Roles...), nil
}

func (s *MemStore) SaveRole(ctx context.Context, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.Roles {
		if existing.Name == r.Name {
			s.Roles[i] = r
			return nil
		}
	}
	s.Roles = append(s.Roles, r)
	return nil
}

func (s *MemStore) DeleteRole(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, r := range s.Roles {
		if r.Name == name {
			s.Roles = append(s.Roles[:i], s.Roles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: role %s", ErrNotFound, name)
}

func (s *MemStore) ReadRows(ctx context.Context, sheet string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rows := make([]Row, 0, len(s.Rows[sheet]))
	for _, row := range s.Rows[sheet] {
		copied := Row{}
		for k, v := range row {
			copied[k] = v
		}
		rows = append(rows, copied)
	}
	return rows, nil
}

func (s *MemStore) AppendRow(ctx context.Context, sheet string, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Rows[sheet] = append(s.Rows[sheet], row)
	return nil
}

func (s *MemStore) UpdateRow(ctx context.Context, sheet, keyHeader, keyValue string, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.Rows[sheet] {
		if existing[keyHeader] == keyValue {
			for k, v := range row {
				existing[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s=%s in sheet %s", ErrNotFound, keyHeader, keyValue, sheet)
}
