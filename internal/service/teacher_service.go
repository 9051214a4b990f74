package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

// TeacherService manages the teacher directory.
type TeacherService struct {
	engine    *membership.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(engine *membership.Engine, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{engine: engine, validator: validate, logger: logger}
}

// List returns every teacher.
func (s *TeacherService) List(ctx context.Context) []models.Teacher {
	return s.engine.Teachers()
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, ok := s.engine.TeacherByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return teacher, nil
}

// Create registers a teacher. Emails are unique, ignoring case.
func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, t := range s.engine.Teachers() {
		if strings.EqualFold(t.Email, email) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
	}
	return s.engine.CreateTeacher(req.Name, email)
}

// Groups returns the groups attached to the teacher's classes.
func (s *TeacherService) Groups(ctx context.Context, teacherID string) []models.Group {
	return s.engine.GroupsForTeacher(teacherID)
}
