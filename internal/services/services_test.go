package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/auth"
	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store/memstore"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.AttendanceEvent
}

func (p *recordingPublisher) Publish(ev models.AttendanceEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeArchiver struct {
	names []string
	err   error
}

func (a *fakeArchiver) Archive(_ context.Context, name string, _ []byte) error {
	a.names = append(a.names, name)
	return a.err
}

type fixture struct {
	store      *memstore.Store
	cache      *cache.MemoryStore
	blacklist  *cache.Blacklist
	issuer     *auth.Issuer
	admins     *AdminService
	directory  *DirectoryService
	teachers   *TeacherService
	attendance *AttendanceService
	pins       *PinService
	published  *recordingPublisher
	archiver   *fakeArchiver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.Discard()
	f := &fixture{
		store:     memstore.New(),
		cache:     cache.NewMemoryStore(),
		issuer:    auth.NewIssuer("access", "refresh", 15*time.Minute, time.Hour),
		published: &recordingPublisher{},
		archiver:  &fakeArchiver{},
	}
	f.blacklist = cache.NewBlacklist(f.cache)
	f.admins = NewAdminService(f.store, f.issuer, f.blacklist, log)
	f.directory = NewDirectoryService(f.store, log)
	f.teachers = NewTeacherService(f.store, log)
	f.attendance = NewAttendanceService(f.store, f.published, f.archiver, log)
	f.pins = NewPinService(f.store, cache.NewAttemptLimiter(f.cache, "pin", 3, time.Minute), log)
	return f
}

func assertKind(t *testing.T, err error, kind common.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, common.KindOf(err), err.Error())
}
