package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

func sortLevel(l *models.Level) {
	sortByName(l.Sections, func(s models.Section) string { return s.Name })
}

func loadLevel(tx *gorm.DB, id string) (*models.Level, error) {
	var level models.Level
	if err := tx.Preload("Sections").Where("id = ?", id).Take(&level).Error; err != nil {
		return nil, translate(err)
	}
	sortLevel(&level)
	return &level, nil
}

// resolveSections returns one section per distinct name, creating the ones
// that do not exist yet.
func resolveSections(tx *gorm.DB, names []string) ([]models.Section, error) {
	out := make([]models.Section, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		var found []models.Section
		if err := tx.Where("name = ?", name).Limit(1).Find(&found).Error; err != nil {
			return nil, err
		}
		sec := models.Section{Name: name}
		if len(found) > 0 {
			sec = found[0]
		} else if err := tx.Create(&sec).Error; err != nil {
			return nil, err
		}
		if _, dup := seen[sec.ID]; dup {
			continue
		}
		seen[sec.ID] = struct{}{}
		out = append(out, sec)
	}
	return out, nil
}

func linkSections(tx *gorm.DB, levelID string, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	rows := make([]models.LevelSection, 0, len(sections))
	for _, sec := range sections {
		rows = append(rows, models.LevelSection{LevelID: levelID, SectionID: sec.ID})
	}
	return tx.Create(&rows).Error
}

func (s *Store) CreateLevel(ctx context.Context, name string, sectionNames []string) (*models.Level, error) {
	var level *models.Level
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Level{}, "name = ?", name)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		sections, err := resolveSections(tx, sectionNames)
		if err != nil {
			return err
		}
		level = &models.Level{Name: name}
		if err := tx.Create(level).Error; err != nil {
			return err
		}
		if err := linkSections(tx, level.ID, sections); err != nil {
			return err
		}
		level.Sections = sections
		sortLevel(level)
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return level, nil
}

func (s *Store) AddSections(ctx context.Context, levelID string, sectionNames []string) (*models.Level, error) {
	var level *models.Level
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		level, err = loadLevel(tx, levelID)
		if err != nil {
			return err
		}
		sections, err := resolveSections(tx, sectionNames)
		if err != nil {
			return err
		}
		for _, sec := range sections {
			if level.HasSection(sec.ID) {
				return &store.SectionConflictError{Name: sec.Name}
			}
		}
		if err := linkSections(tx, level.ID, sections); err != nil {
			return err
		}
		level.Sections = append(level.Sections, sections...)
		sortLevel(level)
		level.UpdatedAt = time.Now()
		return tx.Model(&models.Level{}).Where("id = ?", level.ID).Update("updated_at", level.UpdatedAt).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return level, nil
}

func (s *Store) GetLevel(ctx context.Context, id string) (*models.Level, error) {
	return loadLevel(s.conn(ctx), id)
}

func (s *Store) ListLevels(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := s.conn(ctx).Preload("Sections").Order("name ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	for i := range levels {
		sortLevel(&levels[i])
	}
	return levels, nil
}

func (s *Store) RenameLevel(ctx context.Context, id, name string) (*models.Level, error) {
	var level *models.Level
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		level, err = loadLevel(tx, id)
		if err != nil {
			return err
		}
		if level.Name == name {
			return nil
		}
		taken, err := exists(tx, &models.Level{}, "name = ? AND id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		if err := tx.Model(&models.Level{}).Where("id = ?", id).Update("name", name).Error; err != nil {
			return err
		}
		level.Name = name
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return level, nil
}

func (s *Store) DeleteLevel(ctx context.Context, id string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("level_id = ?", id).Delete(&models.LevelSection{}).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Where("id = ?", id).Delete(&models.Level{}))
	})
}

func (s *Store) GetSection(ctx context.Context, id string) (*models.Section, error) {
	var sec models.Section
	if err := s.conn(ctx).Where("id = ?", id).Take(&sec).Error; err != nil {
		return nil, translate(err)
	}
	return &sec, nil
}

func (s *Store) ListSections(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	if err := s.conn(ctx).Order("name ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (s *Store) RenameSection(ctx context.Context, id, name string) (*models.Section, error) {
	var sec models.Section
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&sec).Error; err != nil {
			return err
		}
		if sec.Name == name {
			return nil
		}
		taken, err := exists(tx, &models.Section{}, "name = ? AND id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrConflict
		}
		if err := tx.Model(&models.Section{}).Where("id = ?", id).Update("name", name).Error; err != nil {
			return err
		}
		sec.Name = name
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &sec, nil
}

func (s *Store) DeleteSection(ctx context.Context, id string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", id).Delete(&models.LevelSection{}).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Where("id = ?", id).Delete(&models.Section{}))
	})
}
