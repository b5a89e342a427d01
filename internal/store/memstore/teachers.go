package memstore

import (
	"context"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func (s *Store) teacherByName(name string) *models.Teacher {
	for _, t := range s.teachers {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (s *Store) CreateTeacher(_ context.Context, name string) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teacherByName(name) != nil {
		return nil, store.ErrConflict
	}
	now := s.now()
	t := &models.Teacher{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now}
	s.teachers[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *Store) GetTeacher(_ context.Context, id string) (*models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teachers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) ListTeachers(_ context.Context, q string) ([]models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		if q != "" && !containsFold(t.Name, q) {
			continue
		}
		out = append(out, *t)
	}
	sortByName(out, func(t models.Teacher) string { return t.Name })
	return out, nil
}

func (s *Store) RenameTeacher(_ context.Context, id, name string) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teachers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if other := s.teacherByName(name); other != nil && other.ID != id {
		return nil, store.ErrConflict
	}
	t.Name = name
	t.UpdatedAt = s.now()
	cp := *t
	return &cp, nil
}

func (s *Store) DeleteTeacher(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.teachers, id)
	return nil
}

func (s *Store) CountTeachers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.teachers)), nil
}
