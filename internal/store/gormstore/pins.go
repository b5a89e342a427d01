package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func (s *Store) CreatePin(ctx context.Context, value string) (*models.Pin, error) {
	pin := &models.Pin{Value: value}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Pin{}, "value = ?", value)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		return tx.Create(pin).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return pin, nil
}

func (s *Store) ListPins(ctx context.Context) ([]models.Pin, error) {
	var pins []models.Pin
	if err := s.conn(ctx).Order("created_at DESC").Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (s *Store) UpdatePin(ctx context.Context, id, value string) (*models.Pin, error) {
	var pin models.Pin
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&pin).Error; err != nil {
			return err
		}
		if pin.Value == value {
			return nil
		}
		taken, err := exists(tx, &models.Pin{}, "value = ? AND id <> ?", value, id)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		if err := tx.Model(&models.Pin{}).Where("id = ?", id).Update("value", value).Error; err != nil {
			return err
		}
		pin.Value = value
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &pin, nil
}

func (s *Store) DeletePin(ctx context.Context, id string) error {
	return rowsOrNotFound(s.conn(ctx).Where("id = ?", id).Delete(&models.Pin{}))
}

func (s *Store) PinExists(ctx context.Context, value string) (bool, error) {
	return exists(s.conn(ctx), &models.Pin{}, "value = ?", value)
}
