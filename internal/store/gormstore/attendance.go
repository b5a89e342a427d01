package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func (s *Store) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
			return translate(err)
		}
		if len(record.Periods) == 0 {
			return nil
		}
		for i := range record.Periods {
			record.Periods[i].RecordID = record.ID
		}
		return translate(tx.Create(&record.Periods).Error)
	})
}

func (s *Store) GetRecordByPeriod(ctx context.Context, periodID string) (*models.AttendanceRecord, error) {
	db := s.conn(ctx)
	var period models.Period
	if err := db.Where("id = ?", periodID).Take(&period).Error; err != nil {
		return nil, translate(err)
	}
	var record models.AttendanceRecord
	err := db.Preload("Periods", func(q *gorm.DB) *gorm.DB {
		return q.Order("check_in_time ASC")
	}).Where("id = ?", period.RecordID).Take(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (s *Store) SavePeriod(ctx context.Context, period *models.Period) error {
	res := s.conn(ctx).Model(&models.Period{}).Where("id = ?", period.ID).Updates(map[string]any{
		"teacher_id":     period.TeacherID,
		"level_id":       period.LevelID,
		"section_id":     period.SectionID,
		"check_in_time":  period.CheckInTime,
		"check_out_time": period.CheckOutTime,
	})
	return rowsOrNotFound(res)
}

func (s *Store) DeletePeriod(ctx context.Context, periodID string) error {
	return rowsOrNotFound(s.conn(ctx).Where("id = ?", periodID).Delete(&models.Period{}))
}

func (s *Store) ListRecords(ctx context.Context, filter store.AttendanceFilter) ([]models.AttendanceRecord, error) {
	db := s.conn(ctx)
	q := db.Model(&models.Period{})
	if !filter.From.IsZero() {
		q = q.Where("check_in_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("check_in_time < ?", filter.To)
	}
	if filter.LevelID != "" {
		q = q.Where("level_id = ?", filter.LevelID)
	}
	if filter.SectionID != "" {
		q = q.Where("section_id = ?", filter.SectionID)
	}
	var periods []models.Period
	if err := q.Order("check_in_time DESC").Find(&periods).Error; err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return []models.AttendanceRecord{}, nil
	}

	ids := make([]string, 0, len(periods))
	byRecord := make(map[string][]models.Period)
	for _, p := range periods {
		if _, ok := byRecord[p.RecordID]; !ok {
			ids = append(ids, p.RecordID)
		}
		byRecord[p.RecordID] = append(byRecord[p.RecordID], p)
	}
	var records []models.AttendanceRecord
	if err := db.Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	index := make(map[string]models.AttendanceRecord, len(records))
	for _, r := range records {
		index[r.ID] = r
	}
	// ids is ordered by each record's latest matching check-in.
	out := make([]models.AttendanceRecord, 0, len(ids))
	for _, id := range ids {
		r, ok := index[id]
		if !ok {
			continue
		}
		r.Periods = byRecord[id]
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.AttendanceRecord{}).Count(&n).Error
	return n, err
}
