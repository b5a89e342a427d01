package memstore

import (
	"context"
	"sort"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func (s *Store) pinByValue(value string) *models.Pin {
	for _, p := range s.pins {
		if p.Value == value {
			return p
		}
	}
	return nil
}

func (s *Store) CreatePin(_ context.Context, value string) (*models.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinByValue(value) != nil {
		return nil, store.ErrConflict
	}
	p := &models.Pin{ID: newID(), Value: value, CreatedAt: s.now()}
	s.pins[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *Store) ListPins(_ context.Context) ([]models.Pin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pin, 0, len(s.pins))
	for _, p := range s.pins {
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdatePin(_ context.Context, id, value string) (*models.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if other := s.pinByValue(value); other != nil && other.ID != id {
		return nil, store.ErrConflict
	}
	p.Value = value
	cp := *p
	return &cp, nil
}

func (s *Store) DeletePin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pins[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.pins, id)
	return nil
}

func (s *Store) PinExists(_ context.Context, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pinByValue(value) != nil, nil
}
