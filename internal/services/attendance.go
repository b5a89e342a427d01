package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/export"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/metrics"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

const (
	dateLayout = "2006-01-02"

	unknownTeacher = "Unknown Teacher"
	unknownLevel   = "Unknown Level"
	unknownSection = "Unknown Section"
)

type PeriodInput struct {
	TeacherID    string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

type RecordInput struct {
	Date      *time.Time
	LevelID   string
	SectionID string
	Periods   []PeriodInput
}

// PeriodUpdate carries the fields to change, nil means keep.
type PeriodUpdate struct {
	TeacherID    *string
	LevelID      *string
	SectionID    *string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

// QueryFilter is the raw query string filter. From and To are calendar
// days (YYYY-MM-DD), both inclusive; Range is the "start_end" form.
type QueryFilter struct {
	From      string
	To        string
	Range     string
	LevelID   string
	SectionID string
}

type AttendanceService struct {
	store     store.Store
	publisher Publisher
	archiver  Archiver
	log       logging.Logger
	now       func() time.Time
}

func NewAttendanceService(st store.Store, publisher Publisher, archiver Archiver, log logging.Logger) *AttendanceService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &AttendanceService{
		store:     st,
		publisher: publisher,
		archiver:  archiver,
		log:       log.With("service", "attendance"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AttendanceService) publish(ctx context.Context, kind, recordID, periodID string) {
	metrics.AttendanceEvents.WithLabelValues(kind).Inc()
	s.publisher.Publish(models.AttendanceEvent{Type: kind, RecordID: recordID, PeriodID: periodID, At: s.now()})
	s.log.Debug(ctx, "attendance "+kind, "record_id", recordID, "period_id", periodID)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *AttendanceService) CreateRecord(ctx context.Context, in RecordInput) (*models.AttendanceRecord, error) {
	if in.LevelID == "" {
		return nil, common.BadRequest("Level ID is required")
	}
	if in.SectionID == "" {
		return nil, common.BadRequest("Section ID is required")
	}
	if len(in.Periods) == 0 {
		return nil, common.BadRequest("At least one period is required")
	}
	if !validID(in.LevelID) {
		return nil, common.BadRequest("Invalid level ID")
	}
	if !validID(in.SectionID) {
		return nil, common.BadRequest("Invalid section ID")
	}
	if _, err := s.store.GetLevel(ctx, in.LevelID); err != nil {
		return nil, fromStore(err, "Level not found", "")
	}
	if _, err := s.store.GetSection(ctx, in.SectionID); err != nil {
		return nil, fromStore(err, "Section not found", "")
	}

	now := s.now()
	record := &models.AttendanceRecord{
		Date:      truncateDay(now),
		LevelID:   in.LevelID,
		SectionID: in.SectionID,
		Periods:   make([]models.Period, 0, len(in.Periods)),
	}
	if in.Date != nil {
		record.Date = truncateDay(*in.Date)
	}
	for _, p := range in.Periods {
		if err := s.requireTeacher(ctx, p.TeacherID); err != nil {
			return nil, err
		}
		period := models.Period{
			TeacherID:   p.TeacherID,
			LevelID:     in.LevelID,
			SectionID:   in.SectionID,
			CheckInTime: now,
		}
		if p.CheckInTime != nil {
			period.CheckInTime = p.CheckInTime.UTC()
		}
		if p.CheckOutTime != nil {
			out := p.CheckOutTime.UTC()
			period.CheckOutTime = &out
		}
		if !period.IntervalValid() {
			return nil, common.BadRequest("Check-out time cannot be before check-in time")
		}
		record.Periods = append(record.Periods, period)
	}

	if err := s.store.CreateRecord(ctx, record); err != nil {
		return nil, common.Internal("failed to create attendance record", err)
	}
	s.publish(ctx, models.EventCreated, record.ID, "")
	return record, nil
}

func (s *AttendanceService) requireTeacher(ctx context.Context, teacherID string) error {
	if teacherID == "" || !validID(teacherID) {
		return common.NotFound("Teacher not found")
	}
	if _, err := s.store.GetTeacher(ctx, teacherID); err != nil {
		return fromStore(err, "Teacher not found", "")
	}
	return nil
}

func (s *AttendanceService) UpdatePeriod(ctx context.Context, periodID string, upd PeriodUpdate) (*models.Period, error) {
	if !validID(periodID) {
		return nil, common.BadRequest("Invalid Period ID")
	}
	record, err := s.store.GetRecordByPeriod(ctx, periodID)
	if err != nil {
		return nil, fromStore(err, "Attendance record not found", "")
	}
	var period *models.Period
	for i := range record.Periods {
		if record.Periods[i].ID == periodID {
			period = &record.Periods[i]
			break
		}
	}
	if period == nil {
		return nil, common.NotFound("Period not found")
	}

	if upd.TeacherID != nil {
		if err := s.requireTeacher(ctx, *upd.TeacherID); err != nil {
			return nil, err
		}
		period.TeacherID = *upd.TeacherID
	}
	if upd.LevelID != nil {
		if !validID(*upd.LevelID) {
			return nil, common.BadRequest("Invalid level ID")
		}
		period.LevelID = *upd.LevelID
	}
	if upd.SectionID != nil {
		if !validID(*upd.SectionID) {
			return nil, common.BadRequest("Invalid section ID")
		}
		period.SectionID = *upd.SectionID
	}
	if upd.CheckInTime != nil {
		period.CheckInTime = upd.CheckInTime.UTC()
	}
	if upd.CheckOutTime != nil {
		out := upd.CheckOutTime.UTC()
		period.CheckOutTime = &out
	}
	if !period.IntervalValid() {
		return nil, common.BadRequest("Check-out time cannot be before check-in time")
	}

	if err := s.store.SavePeriod(ctx, period); err != nil {
		return nil, fromStore(err, "Period not found", "")
	}
	s.publish(ctx, models.EventUpdated, record.ID, period.ID)
	return period, nil
}

func (s *AttendanceService) DeletePeriod(ctx context.Context, periodID string) error {
	if !validID(periodID) {
		return common.BadRequest("Invalid Period ID")
	}
	record, err := s.store.GetRecordByPeriod(ctx, periodID)
	if err != nil {
		return fromStore(err, "Attendance record not found", "")
	}
	if err := s.store.DeletePeriod(ctx, periodID); err != nil {
		return fromStore(err, "Period not found", "")
	}
	s.publish(ctx, models.EventDeleted, record.ID, periodID)
	return nil
}

// parseDay accepts a bare date or a full RFC 3339 timestamp and returns the
// start of its UTC day.
func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

func (f QueryFilter) storeFilter() (store.AttendanceFilter, error) {
	var out store.AttendanceFilter
	from, to := f.From, f.To
	if f.Range != "" {
		start, end, ok := strings.Cut(f.Range, "_")
		if !ok || start == "" || end == "" {
			return out, common.BadRequest("checkInTimeRange must look like YYYY-MM-DD_YYYY-MM-DD")
		}
		from, to = start, end
	}
	if from != "" {
		t, err := parseDay(from)
		if err != nil {
			return out, common.BadRequest("Invalid from date, expected YYYY-MM-DD")
		}
		out.From = t
	}
	if to != "" {
		t, err := parseDay(to)
		if err != nil {
			return out, common.BadRequest("Invalid to date, expected YYYY-MM-DD")
		}
		// whole end day included
		out.To = t.AddDate(0, 0, 1)
	}
	if f.LevelID != "" {
		if !validID(f.LevelID) {
			return out, common.BadRequest("Invalid level ID")
		}
		out.LevelID = f.LevelID
	}
	if f.SectionID != "" {
		if !validID(f.SectionID) {
			return out, common.BadRequest("Invalid section ID")
		}
		out.SectionID = f.SectionID
	}
	return out, nil
}

// Query returns matching periods flattened with display names, newest
// check-in first.
func (s *AttendanceService) Query(ctx context.Context, f QueryFilter) ([]models.AttendanceRow, error) {
	filter, err := f.storeFilter()
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, common.Internal("failed to load attendance", err)
	}
	rows := make([]models.AttendanceRow, 0)
	if len(records) == 0 {
		return rows, nil
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		for _, p := range r.Periods {
			levelID, sectionID := p.LevelID, p.SectionID
			if levelID == "" {
				levelID = r.LevelID
			}
			if sectionID == "" {
				sectionID = r.SectionID
			}
			rows = append(rows, models.AttendanceRow{
				ID:           p.ID,
				RecordID:     r.ID,
				Date:         r.Date.UTC().Format(dateLayout),
				Teacher:      lookup(names.teachers, p.TeacherID, unknownTeacher),
				Level:        lookup(names.levels, levelID, unknownLevel),
				Section:      lookup(names.sections, sectionID, unknownSection),
				CheckInTime:  p.CheckInTime,
				CheckOutTime: p.CheckOutTime,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CheckInTime.After(rows[j].CheckInTime) })
	return rows, nil
}

type nameIndex struct {
	teachers map[string]string
	levels   map[string]string
	sections map[string]string
}

func (s *AttendanceService) names(ctx context.Context) (*nameIndex, error) {
	teachers, err := s.store.ListTeachers(ctx, "")
	if err != nil {
		return nil, common.Internal("failed to load teachers", err)
	}
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, common.Internal("failed to load levels", err)
	}
	sections, err := s.store.ListSections(ctx)
	if err != nil {
		return nil, common.Internal("failed to load sections", err)
	}
	idx := &nameIndex{
		teachers: make(map[string]string, len(teachers)),
		levels:   make(map[string]string, len(levels)),
		sections: make(map[string]string, len(sections)),
	}
	for _, t := range teachers {
		idx.teachers[t.ID] = t.Name
	}
	for _, l := range levels {
		idx.levels[l.ID] = l.Name
	}
	for _, sec := range sections {
		idx.sections[sec.ID] = sec.Name
	}
	return idx, nil
}

func lookup(m map[string]string, id, fallback string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return fallback
}

// Export renders the Query result as a workbook and archives a copy when
// an archiver is configured. Archive failures are only logged.
func (s *AttendanceService) Export(ctx context.Context, f QueryFilter) ([]byte, error) {
	rows, err := s.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.NotFound("No attendance records found")
	}
	data, err := export.Workbook(rows)
	if err != nil {
		return nil, common.Internal("Failed to export attendance records to Excel", err)
	}
	if s.archiver != nil {
		name := fmt.Sprintf("attendance_records_%s.xlsx", s.now().Format("20060102T150405Z"))
		if err := s.archiver.Archive(ctx, name, data); err != nil {
			s.log.Warn(ctx, "export archive failed", "name", name, "error", err)
		}
	}
	return data, nil
}
