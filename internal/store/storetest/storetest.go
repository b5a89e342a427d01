// Package storetest holds the behaviour shared by every store.Store
// implementation, run from each implementation's tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

// Run exercises a fresh store from newStore in every subtest.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	tests := map[string]func(t *testing.T, s store.Store){
		"AdminSingleton":            testAdminSingleton,
		"AdminRefreshAndPassword":   testAdminRefreshAndPassword,
		"CreateLevelReusesSections": testCreateLevelReusesSections,
		"AddSectionsConflict":       testAddSectionsConflict,
		"DeleteSectionCascades":     testDeleteSectionCascades,
		"DeleteLevelKeepsSections":  testDeleteLevelKeepsSections,
		"RenameConflicts":           testRenameConflicts,
		"Teachers":                  testTeachers,
		"Attendance":                testAttendance,
		"ListRecordsFilter":         testListRecordsFilter,
		"Pins":                      testPins,
	}
	for name, fn := range tests {
		fn := fn
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

func testAdminSingleton(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateAdmin(ctx, &models.Admin{Username: "root", Password: "hash"}))

	err := s.CreateAdmin(ctx, &models.Admin{Username: "other", Password: "hash"})
	assert.ErrorIs(t, err, store.ErrConflict)

	got, err := s.GetAdminByUsername(ctx, "root")
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)

	_, err = s.GetAdminByUsername(ctx, "other")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testAdminRefreshAndPassword(t *testing.T, s store.Store) {
	ctx := context.Background()
	admin := &models.Admin{Username: "root", Password: "hash"}
	require.NoError(t, s.CreateAdmin(ctx, admin))

	require.NoError(t, s.SetRefreshToken(ctx, admin.ID, "digest"))
	require.NoError(t, s.UpdatePassword(ctx, admin.ID, "hash2"))

	got, err := s.GetAdminByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest", got.RefreshToken)
	assert.Equal(t, "hash2", got.Password)

	assert.ErrorIs(t, s.SetRefreshToken(ctx, "00000000-0000-0000-0000-000000000000", ""), store.ErrNotFound)
}

func sectionNames(l *models.Level) []string {
	out := make([]string, 0, len(l.Sections))
	for _, sec := range l.Sections {
		out = append(out, sec.Name)
	}
	return out
}

func testCreateLevelReusesSections(t *testing.T, s store.Store) {
	ctx := context.Background()
	l1, err := s.CreateLevel(ctx, "Grade 1", []string{"B", "A", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, sectionNames(l1))

	l2, err := s.CreateLevel(ctx, "Grade 2", []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, l1.Sections[0].ID, l2.Sections[0].ID)

	sections, err := s.ListSections(ctx)
	require.NoError(t, err)
	assert.Len(t, sections, 2)

	_, err = s.CreateLevel(ctx, "Grade 1", nil)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func testAddSectionsConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	l, err := s.CreateLevel(ctx, "Grade 1", []string{"A"})
	require.NoError(t, err)

	_, err = s.AddSections(ctx, l.ID, []string{"C", "A"})
	require.ErrorIs(t, err, store.ErrConflict)
	var conflict *store.SectionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "A", conflict.Name)

	// nothing from the rejected batch was attached
	got, err := s.GetLevel(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, sectionNames(got))

	got, err = s.AddSections(ctx, l.ID, []string{"C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, sectionNames(got))

	_, err = s.AddSections(ctx, "00000000-0000-0000-0000-000000000000", []string{"D"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteSectionCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	l1, err := s.CreateLevel(ctx, "Grade 1", []string{"A", "B"})
	require.NoError(t, err)
	l2, err := s.CreateLevel(ctx, "Grade 2", []string{"A"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSection(ctx, l1.Sections[0].ID))

	got1, err := s.GetLevel(ctx, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, sectionNames(got1))
	got2, err := s.GetLevel(ctx, l2.ID)
	require.NoError(t, err)
	assert.Empty(t, got2.Sections)

	assert.ErrorIs(t, s.DeleteSection(ctx, l1.Sections[0].ID), store.ErrNotFound)
}

func testDeleteLevelKeepsSections(t *testing.T, s store.Store) {
	ctx := context.Background()
	l, err := s.CreateLevel(ctx, "Grade 1", []string{"A"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteLevel(ctx, l.ID))
	_, err = s.GetLevel(ctx, l.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetSection(ctx, l.Sections[0].ID)
	assert.NoError(t, err)
}

func testRenameConflicts(t *testing.T, s store.Store) {
	ctx := context.Background()
	l1, err := s.CreateLevel(ctx, "Grade 1", []string{"A"})
	require.NoError(t, err)
	_, err = s.CreateLevel(ctx, "Grade 2", []string{"B"})
	require.NoError(t, err)

	_, err = s.RenameLevel(ctx, l1.ID, "Grade 2")
	assert.ErrorIs(t, err, store.ErrConflict)

	renamed, err := s.RenameLevel(ctx, l1.ID, "Grade 1")
	require.NoError(t, err)
	assert.Equal(t, "Grade 1", renamed.Name)

	renamed, err = s.RenameLevel(ctx, l1.ID, "Grade 3")
	require.NoError(t, err)
	assert.Equal(t, "Grade 3", renamed.Name)
	assert.Len(t, renamed.Sections, 1)

	_, err = s.RenameSection(ctx, l1.Sections[0].ID, "B")
	assert.ErrorIs(t, err, store.ErrConflict)
	sec, err := s.RenameSection(ctx, l1.Sections[0].ID, "Z")
	require.NoError(t, err)
	assert.Equal(t, "Z", sec.Name)
}

func testTeachers(t *testing.T, s store.Store) {
	ctx := context.Background()
	smith, err := s.CreateTeacher(ctx, "Jane Smith")
	require.NoError(t, err)
	_, err = s.CreateTeacher(ctx, "Adam Brown")
	require.NoError(t, err)

	_, err = s.CreateTeacher(ctx, "Jane Smith")
	assert.ErrorIs(t, err, store.ErrConflict)

	all, err := s.ListTeachers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adam Brown", all[0].Name)

	found, err := s.ListTeachers(ctx, "SMI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, smith.ID, found[0].ID)

	renamed, err := s.RenameTeacher(ctx, smith.ID, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", renamed.Name)

	n, err := s.CountTeachers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, s.DeleteTeacher(ctx, smith.ID))
	assert.ErrorIs(t, s.DeleteTeacher(ctx, smith.ID), store.ErrNotFound)
}

func newRecord(levelID, sectionID, teacherID string, checkIns ...time.Time) *models.AttendanceRecord {
	r := &models.AttendanceRecord{
		Date:      checkIns[0].Truncate(24 * time.Hour),
		LevelID:   levelID,
		SectionID: sectionID,
	}
	for _, in := range checkIns {
		r.Periods = append(r.Periods, models.Period{
			TeacherID:   teacherID,
			LevelID:     levelID,
			SectionID:   sectionID,
			CheckInTime: in,
		})
	}
	return r
}

func testAttendance(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	rec := newRecord("11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222",
		"33333333-3333-3333-3333-333333333333", base.Add(time.Hour), base)
	require.NoError(t, s.CreateRecord(ctx, rec))
	require.NotEmpty(t, rec.ID)
	require.Len(t, rec.Periods, 2)

	got, err := s.GetRecordByPeriod(ctx, rec.Periods[0].ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	require.Len(t, got.Periods, 2)
	assert.True(t, got.Periods[0].CheckInTime.Equal(base))

	p := got.Periods[1]
	out := p.CheckInTime.Add(45 * time.Minute)
	p.CheckOutTime = &out
	require.NoError(t, s.SavePeriod(ctx, &p))

	got, err = s.GetRecordByPeriod(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Periods[1].CheckOutTime)
	assert.True(t, got.Periods[1].CheckOutTime.Equal(out))

	require.NoError(t, s.DeletePeriod(ctx, p.ID))
	_, err = s.GetRecordByPeriod(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeletePeriod(ctx, p.ID), store.ErrNotFound)

	n, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testListRecordsFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	const (
		levelA  = "11111111-1111-1111-1111-111111111111"
		levelB  = "44444444-4444-4444-4444-444444444444"
		section = "22222222-2222-2222-2222-222222222222"
		teacher = "33333333-3333-3333-3333-333333333333"
	)
	day1 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	require.NoError(t, s.CreateRecord(ctx, newRecord(levelA, section, teacher, day1, day1.Add(2*time.Hour))))
	require.NoError(t, s.CreateRecord(ctx, newRecord(levelB, section, teacher, day2)))

	all, err := s.ListRecords(ctx, store.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest check-in first
	assert.Equal(t, levelB, all[0].LevelID)
	require.Len(t, all[1].Periods, 2)
	assert.True(t, all[1].Periods[0].CheckInTime.After(all[1].Periods[1].CheckInTime))

	window, err := s.ListRecords(ctx, store.AttendanceFilter{From: day1.Add(time.Hour), To: day2})
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Len(t, window[0].Periods, 1)
	assert.True(t, window[0].Periods[0].CheckInTime.Equal(day1.Add(2*time.Hour)))

	byLevel, err := s.ListRecords(ctx, store.AttendanceFilter{LevelID: levelB})
	require.NoError(t, err)
	require.Len(t, byLevel, 1)

	none, err := s.ListRecords(ctx, store.AttendanceFilter{From: day2.Add(time.Hour)})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testPins(t *testing.T, s store.Store) {
	ctx := context.Background()
	p, err := s.CreatePin(ctx, "1234")
	require.NoError(t, err)

	_, err = s.CreatePin(ctx, "1234")
	assert.ErrorIs(t, err, store.ErrConflict)

	ok, err := s.PinExists(ctx, "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	q, err := s.CreatePin(ctx, "99")
	require.NoError(t, err)
	_, err = s.UpdatePin(ctx, q.ID, "1234")
	assert.ErrorIs(t, err, store.ErrConflict)

	updated, err := s.UpdatePin(ctx, p.ID, "4321")
	require.NoError(t, err)
	assert.Equal(t, "4321", updated.Value)

	ok, err = s.PinExists(ctx, "1234")
	require.NoError(t, err)
	assert.False(t, ok)

	pins, err := s.ListPins(ctx)
	require.NoError(t, err)
	assert.Len(t, pins, 2)

	require.NoError(t, s.DeletePin(ctx, p.ID))
	assert.ErrorIs(t, s.DeletePin(ctx, p.ID), store.ErrNotFound)
}
