package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

// ClassService manages classes in the working set.
type ClassService struct {
	engine    *membership.Engine
	validator *validator.Validate
	audit     *AuditService
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(engine *membership.Engine, validate *validator.Validate, audit *AuditService, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{engine: engine, validator: validate, audit: audit, logger: logger}
}

// List returns every class, optionally only those taught by teacherID.
func (s *ClassService) List(ctx context.Context, teacherID string) []models.Class {
	classes := s.engine.Classes()
	if teacherID == "" {
		return classes
	}
	out := make([]models.Class, 0, len(classes))
	for _, c := range classes {
		if c.TeacherID == teacherID || containsString(c.TeacherIDs, teacherID) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, ok := s.engine.ClassByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return class, nil
}

// Create adds a class.
func (s *ClassService) Create(ctx context.Context, actor models.Actor, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.engine.CreateClass(membership.ClassInput{
		Name:        req.Name,
		TeacherID:   req.TeacherID,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionClassCreate, "class", class.ID, nil, class)
	return class, nil
}

// Students returns the students enrolled in a class.
func (s *ClassService) Students(ctx context.Context, id string) ([]models.Student, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.engine.StudentsInClass(id), nil
}

// Groups returns the groups associated with a class.
func (s *ClassService) Groups(ctx context.Context, id string) ([]models.Group, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.engine.GroupsForClass(id), nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
