// Package store declares the persistence contracts of the backend. Every
// method is an atomic unit: implementations run multi-row changes inside a
// single transaction.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type Admins interface {
	// CreateAdmin fails with ErrConflict when any administrator exists.
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	// SetRefreshToken stores the digest, an empty digest logs the admin out.
	SetRefreshToken(ctx context.Context, adminID, digest string) error
	UpdatePassword(ctx context.Context, adminID, hash string) error
}

type Directory interface {
	// CreateLevel creates the level and reuses or creates a section for each name.
	CreateLevel(ctx context.Context, name string, sectionNames []string) (*models.Level, error)
	// AddSections fails with ErrConflict, appending nothing, when a resolved
	// section is already referenced by the level.
	AddSections(ctx context.Context, levelID string, sectionNames []string) (*models.Level, error)
	GetLevel(ctx context.Context, id string) (*models.Level, error)
	ListLevels(ctx context.Context) ([]models.Level, error)
	RenameLevel(ctx context.Context, id, name string) (*models.Level, error)
	DeleteLevel(ctx context.Context, id string) error

	GetSection(ctx context.Context, id string) (*models.Section, error)
	ListSections(ctx context.Context) ([]models.Section, error)
	RenameSection(ctx context.Context, id, name string) (*models.Section, error)
	// DeleteSection removes the section and every level reference to it.
	DeleteSection(ctx context.Context, id string) error
}

type Teachers interface {
	CreateTeacher(ctx context.Context, name string) (*models.Teacher, error)
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	// ListTeachers filters on a case-insensitive name substring when q is set.
	ListTeachers(ctx context.Context, q string) ([]models.Teacher, error)
	RenameTeacher(ctx context.Context, id, name string) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	CountTeachers(ctx context.Context) (int64, error)
}

// AttendanceFilter selects periods. Zero values mean no constraint; From is
// inclusive and To exclusive, both on the period check-in.
type AttendanceFilter struct {
	From      time.Time
	To        time.Time
	LevelID   string
	SectionID string
}

type Attendance interface {
	CreateRecord(ctx context.Context, record *models.AttendanceRecord) error
	// GetRecordByPeriod returns the record owning periodID, periods loaded.
	GetRecordByPeriod(ctx context.Context, periodID string) (*models.AttendanceRecord, error)
	SavePeriod(ctx context.Context, period *models.Period) error
	DeletePeriod(ctx context.Context, periodID string) error
	// ListRecords returns records holding at least one matching period, with
	// only the matching periods loaded.
	ListRecords(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, error)
	CountRecords(ctx context.Context) (int64, error)
}

type Pins interface {
	CreatePin(ctx context.Context, value string) (*models.Pin, error)
	ListPins(ctx context.Context) ([]models.Pin, error)
	UpdatePin(ctx context.Context, id, value string) (*models.Pin, error)
	DeletePin(ctx context.Context, id string) error
	PinExists(ctx context.Context, value string) (bool, error)
}

type Store interface {
	Admins
	Directory
	Teachers
	Attendance
	Pins
	Ping(ctx context.Context) error
}

// SectionConflictError names the section that is already on a level. It
// matches ErrConflict under errors.Is.
type SectionConflictError struct {
	Name string
}

func (e *SectionConflictError) Error() string {
	return "section " + e.Name + " already exists in the level"
}

func (e *SectionConflictError) Is(target error) bool { return target == ErrConflict }
