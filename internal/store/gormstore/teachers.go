package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func (s *Store) CreateTeacher(ctx context.Context, name string) (*models.Teacher, error) {
	t := &models.Teacher{Name: name}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Teacher{}, "name = ?", name)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (s *Store) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var t models.Teacher
	if err := s.conn(ctx).Where("id = ?", id).Take(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) ListTeachers(ctx context.Context, q string) ([]models.Teacher, error) {
	var teachers []models.Teacher
	query := s.conn(ctx).Order("name ASC")
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if err := query.Find(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

func (s *Store) RenameTeacher(ctx context.Context, id, name string) (*models.Teacher, error) {
	var t models.Teacher
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&t).Error; err != nil {
			return err
		}
		if t.Name == name {
			return nil
		}
		taken, err := exists(tx, &models.Teacher{}, "name = ? AND id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		if err := tx.Model(&models.Teacher{}).Where("id = ?", id).Update("name", name).Error; err != nil {
			return err
		}
		t.Name = name
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	return rowsOrNotFound(s.conn(ctx).Where("id = ?", id).Delete(&models.Teacher{}))
}

func (s *Store) CountTeachers(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Teacher{}).Count(&n).Error
	return n, err
}
