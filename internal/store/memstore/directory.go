package memstore

import (
	"context"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

// resolve must be called with the lock held.
func (s *Store) resolve(l *level) models.Level {
	out := l.Level
	out.Sections = make([]models.Section, 0, len(l.sectionIDs))
	for _, id := range l.sectionIDs {
		if sec, ok := s.sections[id]; ok {
			out.Sections = append(out.Sections, *sec)
		}
	}
	sortByName(out.Sections, func(sec models.Section) string { return sec.Name })
	return out
}

func (s *Store) levelByName(name string) *level {
	for _, l := range s.levels {
		if l.Name == name {
			return l
		}
	}
	return nil
}

func (s *Store) sectionByName(name string) *models.Section {
	for _, sec := range s.sections {
		if sec.Name == name {
			return sec
		}
	}
	return nil
}

// resolveSections returns distinct section ids for names and the sections
// that would have to be created; nothing is written.
func (s *Store) resolveSections(names []string) ([]string, []*models.Section) {
	ids := make([]string, 0, len(names))
	var created []*models.Section
	pending := make(map[string]*models.Section)
	seen := make(map[string]struct{})
	for _, name := range names {
		sec := s.sectionByName(name)
		if sec == nil {
			sec = pending[name]
		}
		if sec == nil {
			now := s.now()
			sec = &models.Section{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now}
			pending[name] = sec
			created = append(created, sec)
		}
		if _, dup := seen[sec.ID]; dup {
			continue
		}
		seen[sec.ID] = struct{}{}
		ids = append(ids, sec.ID)
	}
	return ids, created
}

func (s *Store) CreateLevel(_ context.Context, name string, sectionNames []string) (*models.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.levelByName(name) != nil {
		return nil, store.ErrConflict
	}
	ids, created := s.resolveSections(sectionNames)
	for _, sec := range created {
		s.sections[sec.ID] = sec
	}
	now := s.now()
	l := &level{
		Level:      models.Level{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now},
		sectionIDs: ids,
	}
	s.levels[l.ID] = l
	out := s.resolve(l)
	return &out, nil
}

func (s *Store) AddSections(_ context.Context, levelID string, sectionNames []string) (*models.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[levelID]
	if !ok {
		return nil, store.ErrNotFound
	}
	ids, created := s.resolveSections(sectionNames)
	current := s.resolve(l)
	for _, id := range ids {
		if current.HasSection(id) {
			return nil, &store.SectionConflictError{Name: s.sections[id].Name}
		}
	}
	for _, sec := range created {
		s.sections[sec.ID] = sec
	}
	l.sectionIDs = append(l.sectionIDs, ids...)
	l.UpdatedAt = s.now()
	out := s.resolve(l)
	return &out, nil
}

func (s *Store) GetLevel(_ context.Context, id string) (*models.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.levels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := s.resolve(l)
	return &out, nil
}

func (s *Store) ListLevels(_ context.Context) ([]models.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Level, 0, len(s.levels))
	for _, l := range s.levels {
		out = append(out, s.resolve(l))
	}
	sortByName(out, func(l models.Level) string { return l.Name })
	return out, nil
}

func (s *Store) RenameLevel(_ context.Context, id, name string) (*models.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if other := s.levelByName(name); other != nil && other.ID != id {
		return nil, store.ErrConflict
	}
	l.Name = name
	l.UpdatedAt = s.now()
	out := s.resolve(l)
	return &out, nil
}

func (s *Store) DeleteLevel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.levels[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.levels, id)
	return nil
}

func (s *Store) GetSection(_ context.Context, id string) (*models.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.sections[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sec
	return &cp, nil
}

func (s *Store) ListSections(_ context.Context) ([]models.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Section, 0, len(s.sections))
	for _, sec := range s.sections {
		out = append(out, *sec)
	}
	sortByName(out, func(sec models.Section) string { return sec.Name })
	return out, nil
}

func (s *Store) RenameSection(_ context.Context, id, name string) (*models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.sections[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if other := s.sectionByName(name); other != nil && other.ID != id {
		return nil, store.ErrConflict
	}
	sec.Name = name
	sec.UpdatedAt = s.now()
	cp := *sec
	return &cp, nil
}

func (s *Store) DeleteSection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sections[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.sections, id)
	for _, l := range s.levels {
		kept := l.sectionIDs[:0]
		for _, sid := range l.sectionIDs {
			if sid != id {
				kept = append(kept, sid)
			}
		}
		l.sectionIDs = kept
	}
	return nil
}
