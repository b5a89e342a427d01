package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Level is a grade grouping. Sections are shared references: deleting a
// level never deletes its sections.
type Level struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"level"`
	Sections  []Section `gorm:"many2many:level_sections;constraint:OnDelete:CASCADE" json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Level) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// HasSection reports whether the level already references sectionID.
func (l *Level) HasSection(sectionID string) bool {
	for _, s := range l.Sections {
		if s.ID == sectionID {
			return true
		}
	}
	return false
}

type Section struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"sectionName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Section) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// LevelSection is a row of the level_sections join table.
type LevelSection struct {
	LevelID   string `gorm:"type:uuid;primaryKey"`
	SectionID string `gorm:"type:uuid;primaryKey;index"`
}

func (LevelSection) TableName() string { return "level_sections" }

// LevelSummary is the per-level entry of the system stats.
type LevelSummary struct {
	LevelName    string   `json:"levelName"`
	SectionNames []string `json:"sectionNames"`
}

type SystemStats struct {
	TotalTeachers          int64          `json:"totalTeachers"`
	TotalLevels            int64          `json:"totalLevels"`
	TotalSections          int64          `json:"totalSections"`
	TotalAttendanceRecords int64          `json:"totalAttendanceRecords"`
	LevelData              []LevelSummary `json:"levelData"`
}
