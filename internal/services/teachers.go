package services

import (
	"context"
	"strings"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

type TeacherService struct {
	store store.Teachers
	log   logging.Logger
}

func NewTeacherService(st store.Teachers, log logging.Logger) *TeacherService {
	return &TeacherService{store: st, log: log.With("service", "teachers")}
}

func (s *TeacherService) CreateTeacher(ctx context.Context, name string) (*models.Teacher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.BadRequest("Teacher name is required")
	}
	teacher, err := s.store.CreateTeacher(ctx, name)
	if err != nil {
		return nil, fromStore(err, "", "Teacher already exists")
	}
	s.log.Info(ctx, "teacher created", "teacher_id", teacher.ID)
	return teacher, nil
}

func (s *TeacherService) RenameTeacher(ctx context.Context, teacherID, name string) (*models.Teacher, error) {
	if !validID(teacherID) {
		return nil, common.BadRequest("Invalid teacher ID")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.BadRequest("Teacher name is required")
	}
	teacher, err := s.store.RenameTeacher(ctx, teacherID, name)
	if err != nil {
		return nil, fromStore(err, "Teacher not found", "Teacher already exists")
	}
	return teacher, nil
}

func (s *TeacherService) DeleteTeacher(ctx context.Context, teacherID string) error {
	if !validID(teacherID) {
		return common.BadRequest("Invalid teacher ID")
	}
	if err := s.store.DeleteTeacher(ctx, teacherID); err != nil {
		return fromStore(err, "Teacher not found", "")
	}
	s.log.Info(ctx, "teacher deleted", "teacher_id", teacherID)
	return nil
}

// ListTeachers returns teachers sorted by name, filtered on a
// case-insensitive substring when q is not blank.
func (s *TeacherService) ListTeachers(ctx context.Context, q string) ([]models.Teacher, error) {
	teachers, err := s.store.ListTeachers(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	return teachers, nil
}
