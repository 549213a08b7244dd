package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTileStore is an in-memory TileStore for examples and tests.
type MemoryTileStore struct {
	mu           sync.Mutex
	pages        map[string]PageDefinition
	definitions  map[string]TileDefinition
	instances    map[string]TileInstance
	assignments  map[string][]string
	nextInstance int
}

// NewMemoryTileStore builds an empty store.
func NewMemoryTileStore() *MemoryTileStore {
	return &MemoryTileStore{
		pages:       map[string]PageDefinition{},
		definitions: map[string]TileDefinition{},
		instances:   map[string]TileInstance{},
		assignments: map[string][]string{},
	}
}

// EnsurePage stores a page definition, reporting whether it was new.
func (s *MemoryTileStore) EnsurePage(_ context.Context, def PageDefinition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.pages[def.Code]
	s.pages[def.Code] = def
	return !exists, nil
}

// EnsureDefinition stores a tile definition, reporting whether it was new.
func (s *MemoryTileStore) EnsureDefinition(_ context.Context, def TileDefinition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.definitions[def.Code]
	s.definitions[def.Code] = def
	return !exists, nil
}

// Page returns a stored page definition.
func (s *MemoryTileStore) Page(code string) (PageDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[code]
	return page, ok
}

// CreateInstance allocates a new tile instance.
func (s *MemoryTileStore) CreateInstance(_ context.Context, input CreateTileInstanceInput) (TileInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextInstance++
	id := fmt.Sprintf("inst-%d", s.nextInstance)
	instance := TileInstance{
		ID:            id,
		DefinitionID:  input.DefinitionID,
		Configuration: input.Configuration,
		Metadata:      input.Metadata,
	}
	s.instances[id] = instance
	return instance, nil
}

// DeleteInstance removes an instance and all its page assignments.
func (s *MemoryTileStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, instanceID)
	for page, ids := range s.assignments {
		s.assignments[page] = filterIDs(ids, instanceID)
	}
	return nil
}

// AssignInstance places an instance on a page, optionally at a position.
func (s *MemoryTileStore) AssignInstance(_ context.Context, input AssignTileInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.assignments[input.PageCode]
	if input.Position != nil && *input.Position <= len(order) {
		idx := *input.Position
		order = append(order[:idx], append([]string{input.InstanceID}, order[idx:]...)...)
	} else {
		order = append(order, input.InstanceID)
	}
	s.assignments[input.PageCode] = order
	return nil
}

// ReorderPage replaces the tile order for a page.
func (s *MemoryTileStore) ReorderPage(_ context.Context, input ReorderPageInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[input.PageCode] = append([]string{}, input.TileIDs...)
	return nil
}

// ResolvePage returns the assigned instances in page order.
func (s *MemoryTileStore) ResolvePage(_ context.Context, input ResolvePageInput) (ResolvedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.assignments[input.PageCode]
	tiles := make([]TileInstance, 0, len(ids))
	for _, id := range ids {
		if inst, ok := s.instances[id]; ok {
			inst.PageCode = input.PageCode
			tiles = append(tiles, inst)
		}
	}
	return ResolvedPage{
		PageCode: input.PageCode,
		Tiles:    tiles,
	}, nil
}

func filterIDs(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

var _ TileStore = (*MemoryTileStore)(nil)
