package dashboard

import (
	"context"
	"sync"
)

// InMemoryPreferenceStore keeps viewer preferences per user id. Suitable for
// examples and tests; production deployments plug in their own store.
type InMemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]ViewerPreferences
}

// NewInMemoryPreferenceStore builds an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		prefs: make(map[string]ViewerPreferences),
	}
}

// Preferences returns the stored preferences for a viewer, or the zero value.
func (s *InMemoryPreferenceStore) Preferences(_ context.Context, viewer ViewerContext) (ViewerPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.prefs[viewer.UserID]
	if !ok {
		return ViewerPreferences{}, nil
	}
	return prefs.clone(), nil
}

// SavePreferences replaces the stored preferences for a viewer.
func (s *InMemoryPreferenceStore) SavePreferences(_ context.Context, viewer ViewerContext, prefs ViewerPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[viewer.UserID] = prefs.clone()
	return nil
}

func (p ViewerPreferences) clone() ViewerPreferences {
	out := p
	if p.PageOrder != nil {
		out.PageOrder = make(map[string][]string, len(p.PageOrder))
		for page, order := range p.PageOrder {
			out.PageOrder[page] = append([]string(nil), order...)
		}
	}
	if p.HiddenTiles != nil {
		out.HiddenTiles = make(map[string]bool, len(p.HiddenTiles))
		for tile, hidden := range p.HiddenTiles {
			out.HiddenTiles[tile] = hidden
		}
	}
	return out
}

var _ PreferenceStore = (*InMemoryPreferenceStore)(nil)
