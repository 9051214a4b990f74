package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

const resourceGroup = "group"

type groupPusher interface {
	GroupCreated(group models.Group)
	GroupUpdated(group models.Group)
	GroupDeleted(groupID string)
}

// GroupService exposes group membership operations over the engine and
// records their side effects.
type GroupService struct {
	engine    *membership.Engine
	validator *validator.Validate
	audit     *AuditService
	pusher    groupPusher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService. audit, pusher and metrics may be nil.
func NewGroupService(engine *membership.Engine, validate *validator.Validate, audit *AuditService, pusher groupPusher, metrics *MetricsService, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{engine: engine, validator: validate, audit: audit, pusher: pusher, metrics: metrics, logger: logger}
}

// List returns every group.
func (s *GroupService) List(ctx context.Context) []models.Group {
	return s.engine.Groups()
}

// Get returns a group by id.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	group, ok := s.engine.GroupByID(id)
	if !ok {
		return nil, membership.ErrGroupNotFound
	}
	return group, nil
}

// Students returns the members of a group.
func (s *GroupService) Students(ctx context.Context, id string) ([]models.Student, error) {
	if _, ok := s.engine.GroupByID(id); !ok {
		return nil, membership.ErrGroupNotFound
	}
	return s.engine.StudentsInGroup(id), nil
}

// Create validates and creates a group.
func (s *GroupService) Create(ctx context.Context, actor models.Actor, req dto.CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}

	group, err := s.engine.CreateGroup(membership.CreateGroupInput{
		Name:         req.Name,
		Description:  req.Description,
		StudentIDs:   req.StudentIDs,
		ClassIDs:     req.ClassIDs,
		AcademicYear: req.AcademicYear,
		Speciality:   req.Speciality,
	})
	s.metrics.RecordMutation("create_group", err)
	if err != nil {
		s.logRejection("create_group", err)
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionGroupCreate, resourceGroup, group.ID, nil, group)
	if s.pusher != nil {
		s.pusher.GroupCreated(*group)
	}
	return group, nil
}

// Update applies a partial update to a group.
func (s *GroupService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateGroupRequest) (*models.Group, error) {
	group, before, err := s.engine.UpdateGroup(id, membership.GroupUpdate{
		Name:        req.Name,
		Description: req.Description,
		StudentIDs:  req.StudentIDs,
		ClassIDs:    req.ClassIDs,
	})
	s.metrics.RecordMutation("update_group", err)
	if err != nil {
		s.logRejection("update_group", err)
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionGroupUpdate, resourceGroup, group.ID, before, group)
	if s.pusher != nil {
		s.pusher.GroupUpdated(*group)
	}
	return group, nil
}

// AssignClass links a class to a group.
func (s *GroupService) AssignClass(ctx context.Context, actor models.Actor, groupID, classID string) (*models.Group, error) {
	group, before, err := s.engine.AssignClass(groupID, classID)
	s.metrics.RecordMutation("assign_class", err)
	if err != nil {
		s.logRejection("assign_class", err)
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionGroupUpdate, resourceGroup, group.ID, before, group)
	if s.pusher != nil {
		s.pusher.GroupUpdated(*group)
	}
	return group, nil
}

// Delete removes a group. Deleting an unknown group succeeds without side
// effects.
func (s *GroupService) Delete(ctx context.Context, actor models.Actor, id string) {
	before, existed := s.engine.DeleteGroup(id)
	s.metrics.RecordMutation("delete_group", nil)
	if !existed {
		return
	}

	s.audit.Record(ctx, actor, models.AuditActionGroupDelete, resourceGroup, id, before, nil)
	if s.pusher != nil {
		s.pusher.GroupDeleted(id)
	}
}

// Consistency checks the membership invariants over the working set.
func (s *GroupService) Consistency(ctx context.Context) dto.ConsistencyReport {
	snap := s.engine.Snapshot()
	report := dto.ConsistencyReport{
		Consistent: true,
		Students:   len(snap.Students),
		Classes:    len(snap.Classes),
		Groups:     len(snap.Groups),
		Teachers:   len(snap.Teachers),
		CheckedAt:  time.Now().UTC(),
	}
	if err := s.engine.Verify(); err != nil {
		report.Consistent = false
		report.Violation = err.Error()
		s.logger.Error("membership invariants violated", zap.Error(err))
	}
	return report
}

func (s *GroupService) logRejection(op string, err error) {
	fields := []zap.Field{zap.String("operation", op), zap.Error(err)}
	if ids := membership.ConflictingStudents(err); len(ids) > 0 {
		fields = append(fields, zap.Strings("conflicting_students", ids))
	}
	s.logger.Info("membership change rejected", fields...)
}
