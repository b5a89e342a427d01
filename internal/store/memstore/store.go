// Package memstore is a mutex-guarded, in-process implementation of
// store.Store. It backs DB_DRIVER=memory and the service and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

type Store struct {
	mu sync.RWMutex

	admins   map[string]*models.Admin
	levels   map[string]*level
	sections map[string]*models.Section
	teachers map[string]*models.Teacher
	records  map[string]*models.AttendanceRecord
	// period id -> record id
	periodOwner map[string]string
	pins        map[string]*models.Pin
	now         func() time.Time
}

// level keeps section references as ids; they are resolved on read.
type level struct {
	models.Level
	sectionIDs []string
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		admins:      make(map[string]*models.Admin),
		levels:      make(map[string]*level),
		sections:    make(map[string]*models.Section),
		teachers:    make(map[string]*models.Teacher),
		records:     make(map[string]*models.AttendanceRecord),
		periodOwner: make(map[string]string),
		pins:        make(map[string]*models.Pin),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func newID() string { return uuid.NewString() }

func (s *Store) CreateAdmin(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.admins) > 0 {
		return store.ErrConflict
	}
	if admin.ID == "" {
		admin.ID = newID()
	}
	now := s.now()
	admin.CreatedAt, admin.UpdatedAt = now, now
	cp := *admin
	s.admins[admin.ID] = &cp
	return nil
}

func (s *Store) GetAdminByID(_ context.Context, id string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetAdminByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) SetRefreshToken(_ context.Context, adminID, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[adminID]
	if !ok {
		return store.ErrNotFound
	}
	a.RefreshToken = digest
	a.UpdatedAt = s.now()
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, adminID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[adminID]
	if !ok {
		return store.ErrNotFound
	}
	a.Password = hash
	a.UpdatedAt = s.now()
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return name(items[i]) < name(items[j]) })
}
