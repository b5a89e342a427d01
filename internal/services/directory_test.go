package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
)

const missingID = "00000000-0000-0000-0000-000000000000"

func TestCreateLevel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.directory.CreateLevel(ctx, " ", []string{"A"})
	assertKind(t, err, common.KindBadRequest)
	_, err = f.directory.CreateLevel(ctx, "Grade 1", []string{" ", ""})
	assertKind(t, err, common.KindBadRequest)

	level, err := f.directory.CreateLevel(ctx, "Grade 1", []string{" A ", "B", "A"})
	require.NoError(t, err)
	require.Len(t, level.Sections, 2)
	assert.Equal(t, "A", level.Sections[0].Name)

	_, err = f.directory.CreateLevel(ctx, "Grade 1", []string{"C"})
	assertKind(t, err, common.KindConflict)
}

func TestAddSections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	level, err := f.directory.CreateLevel(ctx, "Grade 1", []string{"A"})
	require.NoError(t, err)

	_, err = f.directory.AddSections(ctx, "not-an-id", []string{"B"})
	assertKind(t, err, common.KindBadRequest)
	_, err = f.directory.AddSections(ctx, level.ID, nil)
	assertKind(t, err, common.KindBadRequest)
	_, err = f.directory.AddSections(ctx, missingID, []string{"B"})
	assertKind(t, err, common.KindNotFound)

	_, err = f.directory.AddSections(ctx, level.ID, []string{"B", "A"})
	assertKind(t, err, common.KindConflict)
	assert.Contains(t, err.Error(), "Section A already exists")

	level, err = f.directory.AddSections(ctx, level.ID, []string{"B"})
	require.NoError(t, err)
	assert.Len(t, level.Sections, 2)
}

func TestDeleteSectionRemovesReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g1, err := f.directory.CreateLevel(ctx, "Grade 1", []string{"A", "B"})
	require.NoError(t, err)
	_, err = f.directory.CreateLevel(ctx, "Grade 2", []string{"A"})
	require.NoError(t, err)

	require.NoError(t, f.directory.DeleteSection(ctx, g1.Sections[0].ID))
	assertKind(t, f.directory.DeleteSection(ctx, g1.Sections[0].ID), common.KindNotFound)

	levels, err := f.directory.ListLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	for _, l := range levels {
		for _, sec := range l.Sections {
			assert.NotEqual(t, "A", sec.Name)
		}
	}
}

func TestRenameAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g1, err := f.directory.CreateLevel(ctx, "Grade 1", []string{"A"})
	require.NoError(t, err)
	_, err = f.directory.CreateLevel(ctx, "Grade 2", []string{"B"})
	require.NoError(t, err)

	_, err = f.directory.RenameLevel(ctx, g1.ID, "Grade 2")
	assertKind(t, err, common.KindConflict)
	renamed, err := f.directory.RenameLevel(ctx, g1.ID, "Grade 0")
	require.NoError(t, err)
	assert.Equal(t, "Grade 0", renamed.Name)

	_, err = f.directory.RenameSection(ctx, g1.Sections[0].ID, "B")
	assertKind(t, err, common.KindConflict)
	_, err = f.directory.RenameSection(ctx, missingID, "Z")
	assertKind(t, err, common.KindNotFound)

	require.NoError(t, f.directory.DeleteLevel(ctx, g1.ID))
	assertKind(t, f.directory.DeleteLevel(ctx, g1.ID), common.KindNotFound)

	// sections outlive their levels
	_, err = f.store.GetSection(ctx, g1.Sections[0].ID)
	assert.NoError(t, err)
}

func TestListLevelsSorted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.directory.CreateLevel(ctx, "Grade 2", []string{"B", "A"})
	require.NoError(t, err)
	_, err = f.directory.CreateLevel(ctx, "Grade 1", []string{"C"})
	require.NoError(t, err)

	levels, err := f.directory.ListLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "Grade 1", levels[0].Name)
	assert.Equal(t, "A", levels[1].Sections[0].Name)
	assert.Equal(t, "B", levels[1].Sections[1].Name)
}

func TestSystemStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.directory.CreateLevel(ctx, "Grade 1", []string{"A", "B"})
	require.NoError(t, err)
	_, err = f.teachers.CreateTeacher(ctx, "Jane")
	require.NoError(t, err)

	stats, err := f.directory.SystemStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalTeachers)
	assert.EqualValues(t, 1, stats.TotalLevels)
	assert.EqualValues(t, 2, stats.TotalSections)
	assert.EqualValues(t, 0, stats.TotalAttendanceRecords)
	require.Len(t, stats.LevelData, 1)
	assert.Equal(t, []string{"A", "B"}, stats.LevelData[0].SectionNames)
}

func TestTeachers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.teachers.CreateTeacher(ctx, "  ")
	assertKind(t, err, common.KindBadRequest)
	jane, err := f.teachers.CreateTeacher(ctx, "Jane Smith")
	require.NoError(t, err)
	_, err = f.teachers.CreateTeacher(ctx, "Jane Smith")
	assertKind(t, err, common.KindConflict)

	same, err := f.teachers.RenameTeacher(ctx, jane.ID, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", same.Name)

	_, err = f.teachers.RenameTeacher(ctx, missingID, "Bob")
	assertKind(t, err, common.KindNotFound)

	found, err := f.teachers.ListTeachers(ctx, "smith")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, f.teachers.DeleteTeacher(ctx, jane.ID))
	assertKind(t, f.teachers.DeleteTeacher(ctx, jane.ID), common.KindNotFound)
	assertKind(t, f.teachers.DeleteTeacher(ctx, "bad"), common.KindBadRequest)
}
