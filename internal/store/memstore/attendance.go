package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func copyRecord(r *models.AttendanceRecord) models.AttendanceRecord {
	out := *r
	out.Periods = append([]models.Period(nil), r.Periods...)
	return out
}

func (s *Store) CreateRecord(_ context.Context, record *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if record.ID == "" {
		record.ID = newID()
	}
	record.CreatedAt, record.UpdatedAt = now, now
	for i := range record.Periods {
		p := &record.Periods[i]
		if p.ID == "" {
			p.ID = newID()
		}
		p.RecordID = record.ID
		p.CreatedAt, p.UpdatedAt = now, now
	}
	cp := copyRecord(record)
	s.records[record.ID] = &cp
	for _, p := range record.Periods {
		s.periodOwner[p.ID] = record.ID
	}
	return nil
}

func (s *Store) GetRecordByPeriod(_ context.Context, periodID string) (*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recordID, ok := s.periodOwner[periodID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := copyRecord(s.records[recordID])
	sort.SliceStable(out.Periods, func(i, j int) bool {
		return out.Periods[i].CheckInTime.Before(out.Periods[j].CheckInTime)
	})
	return &out, nil
}

func (s *Store) SavePeriod(_ context.Context, period *models.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recordID, ok := s.periodOwner[period.ID]
	if !ok {
		return store.ErrNotFound
	}
	record := s.records[recordID]
	for i := range record.Periods {
		p := &record.Periods[i]
		if p.ID != period.ID {
			continue
		}
		p.TeacherID = period.TeacherID
		p.LevelID = period.LevelID
		p.SectionID = period.SectionID
		p.CheckInTime = period.CheckInTime
		p.CheckOutTime = period.CheckOutTime
		p.UpdatedAt = s.now()
		return nil
	}
	return store.ErrNotFound
}

func (s *Store) DeletePeriod(_ context.Context, periodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recordID, ok := s.periodOwner[periodID]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.periodOwner, periodID)
	record := s.records[recordID]
	kept := record.Periods[:0]
	for _, p := range record.Periods {
		if p.ID != periodID {
			kept = append(kept, p)
		}
	}
	record.Periods = kept
	return nil
}

func matches(p models.Period, f store.AttendanceFilter) bool {
	if !f.From.IsZero() && p.CheckInTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !p.CheckInTime.Before(f.To) {
		return false
	}
	if f.LevelID != "" && p.LevelID != f.LevelID {
		return false
	}
	if f.SectionID != "" && p.SectionID != f.SectionID {
		return false
	}
	return true
}

func (s *Store) ListRecords(_ context.Context, filter store.AttendanceFilter) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type entry struct {
		record models.AttendanceRecord
		latest time.Time
	}
	var entries []entry
	for _, r := range s.records {
		out := *r
		out.Periods = nil
		for _, p := range r.Periods {
			if matches(p, filter) {
				out.Periods = append(out.Periods, p)
			}
		}
		if len(out.Periods) == 0 {
			continue
		}
		sort.SliceStable(out.Periods, func(i, j int) bool {
			return out.Periods[i].CheckInTime.After(out.Periods[j].CheckInTime)
		})
		entries = append(entries, entry{record: out, latest: out.Periods[0].CheckInTime})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].latest.After(entries[j].latest) })
	records := make([]models.AttendanceRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.record)
	}
	return records, nil
}

func (s *Store) CountRecords(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}
