package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pin is a shared kiosk code, stored in clear.
type Pin struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Value     string    `gorm:"size:4;uniqueIndex;not null" json:"pin"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Pin) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// All returns every model managed by the schema, in dependency order.
func All() []any {
	return []any{
		&Admin{},
		&Section{},
		&Level{},
		&Teacher{},
		&AttendanceRecord{},
		&Period{},
		&Pin{},
	}
}
