package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is the single administrator account. RefreshToken holds the SHA-256
// digest of the last issued refresh token, empty when logged out.
type Admin struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	RefreshToken string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AdminView is the administrator without credentials, safe to return to clients.
type AdminView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Admin) View() AdminView {
	return AdminView{
		ID:        a.ID,
		Username:  a.Username,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
