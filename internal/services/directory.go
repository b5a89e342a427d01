package services

import (
	"context"
	"errors"
	"strings"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

// DirectoryService manages levels and the sections they reference.
type DirectoryService struct {
	store store.Store
	log   logging.Logger
}

func NewDirectoryService(st store.Store, log logging.Logger) *DirectoryService {
	return &DirectoryService{store: st, log: log.With("service", "directory")}
}

func (s *DirectoryService) CreateLevel(ctx context.Context, name string, sectionNames []string) (*models.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.BadRequest("Level name is required")
	}
	names := cleanNames(sectionNames)
	if len(names) == 0 {
		return nil, common.BadRequest("At least one section is required")
	}
	level, err := s.store.CreateLevel(ctx, name, names)
	if err != nil {
		return nil, fromStore(err, "", "Level already exists")
	}
	s.log.Info(ctx, "level created", "level_id", level.ID, "sections", len(level.Sections))
	return level, nil
}

func (s *DirectoryService) AddSections(ctx context.Context, levelID string, sectionNames []string) (*models.Level, error) {
	if !validID(levelID) {
		return nil, common.BadRequest("Invalid level ID")
	}
	names := cleanNames(sectionNames)
	if len(names) == 0 {
		return nil, common.BadRequest("Additional sections are required")
	}
	level, err := s.store.AddSections(ctx, levelID, names)
	var conflict *store.SectionConflictError
	if errors.As(err, &conflict) {
		return nil, common.Conflict("Section " + conflict.Name + " already exists in the level")
	}
	if err != nil {
		return nil, fromStore(err, "Level not found", "Section already exists in the level")
	}
	s.log.Info(ctx, "sections added", "level_id", level.ID, "added", len(names))
	return level, nil
}

func (s *DirectoryService) RenameLevel(ctx context.Context, levelID, name string) (*models.Level, error) {
	if !validID(levelID) {
		return nil, common.BadRequest("Invalid level ID")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.BadRequest("Level name is required")
	}
	level, err := s.store.RenameLevel(ctx, levelID, name)
	if err != nil {
		return nil, fromStore(err, "Level not found", "Level already exists")
	}
	return level, nil
}

func (s *DirectoryService) DeleteLevel(ctx context.Context, levelID string) error {
	if !validID(levelID) {
		return common.BadRequest("Invalid level ID")
	}
	if err := s.store.DeleteLevel(ctx, levelID); err != nil {
		return fromStore(err, "Level not found", "")
	}
	s.log.Info(ctx, "level deleted", "level_id", levelID)
	return nil
}

func (s *DirectoryService) RenameSection(ctx context.Context, sectionID, name string) (*models.Section, error) {
	if !validID(sectionID) {
		return nil, common.BadRequest("Invalid section ID")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.BadRequest("Section name is required")
	}
	section, err := s.store.RenameSection(ctx, sectionID, name)
	if err != nil {
		return nil, fromStore(err, "Section not found", "Section name already exists")
	}
	return section, nil
}

// DeleteSection removes the section and its references from every level.
func (s *DirectoryService) DeleteSection(ctx context.Context, sectionID string) error {
	if !validID(sectionID) {
		return common.BadRequest("Invalid section ID")
	}
	if err := s.store.DeleteSection(ctx, sectionID); err != nil {
		return fromStore(err, "Section not found", "")
	}
	s.log.Info(ctx, "section deleted", "section_id", sectionID)
	return nil
}

func (s *DirectoryService) ListLevels(ctx context.Context) ([]models.Level, error) {
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	return levels, nil
}

func (s *DirectoryService) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	teachers, err := s.store.CountTeachers(ctx)
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	sections, err := s.store.ListSections(ctx)
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	records, err := s.store.CountRecords(ctx)
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	stats := &models.SystemStats{
		TotalTeachers:          teachers,
		TotalLevels:            int64(len(levels)),
		TotalSections:          int64(len(sections)),
		TotalAttendanceRecords: records,
		LevelData:              make([]models.LevelSummary, 0, len(levels)),
	}
	for _, l := range levels {
		summary := models.LevelSummary{LevelName: l.Name, SectionNames: make([]string, 0, len(l.Sections))}
		for _, sec := range l.Sections {
			summary.SectionNames = append(summary.SectionNames, sec.Name)
		}
		stats.LevelData = append(stats.LevelData, summary)
	}
	return stats, nil
}
