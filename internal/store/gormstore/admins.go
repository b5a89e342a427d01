package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Admin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return store.ErrConflict
		}
		return tx.Create(admin).Error
	})
	return translate(err)
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.conn(ctx).Where("id = ?", id).Take(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.conn(ctx).Where("username = ?", username).Take(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Store) SetRefreshToken(ctx context.Context, adminID, digest string) error {
	res := s.conn(ctx).Model(&models.Admin{}).Where("id = ?", adminID).Update("refresh_token", digest)
	return rowsOrNotFound(res)
}

func (s *Store) UpdatePassword(ctx context.Context, adminID, hash string) error {
	res := s.conn(ctx).Model(&models.Admin{}).Where("id = ?", adminID).Update("password", hash)
	return rowsOrNotFound(res)
}
