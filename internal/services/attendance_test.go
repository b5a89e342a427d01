package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
)

type ledgerFixture struct {
	*fixture
	level   *models.Level
	teacher *models.Teacher
}

func newLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()
	level, err := f.directory.CreateLevel(ctx, "Grade 1", []string{"A"})
	require.NoError(t, err)
	teacher, err := f.teachers.CreateTeacher(ctx, "Jane")
	require.NoError(t, err)
	return &ledgerFixture{fixture: f, level: level, teacher: teacher}
}

func (l *ledgerFixture) input(checkIns ...time.Time) RecordInput {
	in := RecordInput{LevelID: l.level.ID, SectionID: l.level.Sections[0].ID}
	for i := range checkIns {
		in.Periods = append(in.Periods, PeriodInput{TeacherID: l.teacher.ID, CheckInTime: &checkIns[i]})
	}
	return in
}

func ptr[T any](v T) *T { return &v }

func TestCreateRecordValidation(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	now := time.Now()

	in := l.input(now)
	in.LevelID = ""
	_, err := l.attendance.CreateRecord(ctx, in)
	assertKind(t, err, common.KindBadRequest)

	in = l.input()
	_, err = l.attendance.CreateRecord(ctx, in)
	assertKind(t, err, common.KindBadRequest)

	in = l.input(now)
	in.SectionID = missingID
	_, err = l.attendance.CreateRecord(ctx, in)
	assertKind(t, err, common.KindNotFound)

	in = l.input(now)
	in.Periods[0].TeacherID = missingID
	_, err = l.attendance.CreateRecord(ctx, in)
	assertKind(t, err, common.KindNotFound)

	in = l.input(now)
	in.Periods[0].CheckOutTime = ptr(now.Add(-time.Minute))
	_, err = l.attendance.CreateRecord(ctx, in)
	assertKind(t, err, common.KindBadRequest)

	assert.Empty(t, l.published.types())
}

func TestCreateRecordDefaults(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	fixed := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	l.attendance.now = func() time.Time { return fixed }

	in := l.input()
	in.Periods = []PeriodInput{{TeacherID: l.teacher.ID}}
	record, err := l.attendance.CreateRecord(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), record.Date)
	require.Len(t, record.Periods, 1)
	p := record.Periods[0]
	assert.Equal(t, fixed, p.CheckInTime)
	assert.Nil(t, p.CheckOutTime)
	assert.Equal(t, l.level.ID, p.LevelID)
	assert.Equal(t, []string{models.EventCreated}, l.published.types())
}

func TestUpdatePeriod(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	in := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	record, err := l.attendance.CreateRecord(ctx, l.input(in))
	require.NoError(t, err)
	periodID := record.Periods[0].ID

	_, err = l.attendance.UpdatePeriod(ctx, "bad", PeriodUpdate{})
	assertKind(t, err, common.KindBadRequest)
	_, err = l.attendance.UpdatePeriod(ctx, missingID, PeriodUpdate{})
	assertKind(t, err, common.KindNotFound)
	_, err = l.attendance.UpdatePeriod(ctx, periodID, PeriodUpdate{TeacherID: ptr(missingID)})
	assertKind(t, err, common.KindNotFound)
	_, err = l.attendance.UpdatePeriod(ctx, periodID, PeriodUpdate{CheckOutTime: ptr(in.Add(-time.Hour))})
	assertKind(t, err, common.KindBadRequest)

	out := in.Add(50 * time.Minute)
	period, err := l.attendance.UpdatePeriod(ctx, periodID, PeriodUpdate{CheckOutTime: &out})
	require.NoError(t, err)
	require.NotNil(t, period.CheckOutTime)
	assert.Equal(t, out, *period.CheckOutTime)

	stored, err := l.store.GetRecordByPeriod(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, out, *stored.Periods[0].CheckOutTime)
	assert.Equal(t, []string{models.EventCreated, models.EventUpdated}, l.published.types())
}

func TestDeletePeriod(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	record, err := l.attendance.CreateRecord(ctx, l.input(time.Now()))
	require.NoError(t, err)

	require.NoError(t, l.attendance.DeletePeriod(ctx, record.Periods[0].ID))
	assertKind(t, l.attendance.DeletePeriod(ctx, record.Periods[0].ID), common.KindNotFound)
	assert.Equal(t, []string{models.EventCreated, models.EventDeleted}, l.published.types())
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	day1 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	_, err := l.attendance.CreateRecord(ctx, l.input(day1, day1.Add(time.Hour)))
	require.NoError(t, err)
	_, err = l.attendance.CreateRecord(ctx, l.input(day2))
	require.NoError(t, err)

	rows, err := l.attendance.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, day2, rows[0].CheckInTime)
	assert.Equal(t, day1, rows[2].CheckInTime)
	assert.Equal(t, "Jane", rows[0].Teacher)
	assert.Equal(t, "Grade 1", rows[0].Level)
	assert.Equal(t, "A", rows[0].Section)

	rows, err = l.attendance.Query(ctx, QueryFilter{From: "2024-03-04", To: "2024-03-04"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = l.attendance.Query(ctx, QueryFilter{Range: "2024-03-05_2024-03-05"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = l.attendance.Query(ctx, QueryFilter{From: "2025-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, err = l.attendance.Query(ctx, QueryFilter{From: "yesterday"})
	assertKind(t, err, common.KindBadRequest)
	_, err = l.attendance.Query(ctx, QueryFilter{Range: "2024-03-05"})
	assertKind(t, err, common.KindBadRequest)
}

func TestQueryUnknownReferences(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	_, err := l.attendance.CreateRecord(ctx, l.input(time.Now()))
	require.NoError(t, err)

	require.NoError(t, l.teachers.DeleteTeacher(ctx, l.teacher.ID))
	require.NoError(t, l.directory.DeleteLevel(ctx, l.level.ID))
	require.NoError(t, l.directory.DeleteSection(ctx, l.level.Sections[0].ID))

	rows, err := l.attendance.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown Teacher", rows[0].Teacher)
	assert.Equal(t, "Unknown Level", rows[0].Level)
	assert.Equal(t, "Unknown Section", rows[0].Section)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	_, err := l.attendance.Export(ctx, QueryFilter{})
	assertKind(t, err, common.KindNotFound)

	_, err = l.attendance.CreateRecord(ctx, l.input(time.Now()))
	require.NoError(t, err)

	l.archiver.err = errors.New("s3 down")
	data, err := l.attendance.Export(ctx, QueryFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	require.Len(t, l.archiver.names, 1)
	assert.Contains(t, l.archiver.names[0], "attendance_records_")
}
