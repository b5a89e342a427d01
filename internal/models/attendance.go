package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRecord is one submission for a level/section on a given day.
// It owns its periods.
type AttendanceRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;index;not null" json:"date"`
	LevelID   string    `gorm:"type:uuid;index;not null" json:"levelId"`
	SectionID string    `gorm:"type:uuid;index;not null" json:"sectionId"`
	Periods   []Period  `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"periods"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Period is one teaching interval. Teacher, level and section are plain
// references: deleting them keeps the history.
type Period struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID     string     `gorm:"type:uuid;index;not null" json:"recordId"`
	TeacherID    string     `gorm:"type:uuid;index;not null" json:"teacherId"`
	LevelID      string     `gorm:"type:uuid;index" json:"levelId"`
	SectionID    string     `gorm:"type:uuid;index" json:"sectionId"`
	CheckInTime  time.Time  `gorm:"index;not null" json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (p *Period) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IntervalValid is false when the check-out precedes the check-in.
func (p Period) IntervalValid() bool {
	return p.CheckOutTime == nil || !p.CheckOutTime.Before(p.CheckInTime)
}

// AttendanceRow is a period flattened with display names, the shape used by
// listings and exports.
type AttendanceRow struct {
	ID           string     `json:"id"`
	RecordID     string     `json:"recordId"`
	Date         string     `json:"date"`
	Teacher      string     `json:"teacher"`
	Level        string     `json:"level"`
	Section      string     `json:"section"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
}

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// AttendanceEvent is pushed to live feed subscribers on every ledger change.
type AttendanceEvent struct {
	Type     string    `json:"type"`
	RecordID string    `json:"recordId"`
	PeriodID string    `json:"periodId,omitempty"`
	At       time.Time `json:"at"`
}
