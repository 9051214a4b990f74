package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/jobs"
)

// Job types handled by GroupPushService.
const (
	JobGroupCreate = "group.create"
	JobGroupUpdate = "group.update"
	JobGroupDelete = "group.delete"
)

type groupGateway interface {
	PushGroup(ctx context.Context, group models.Group, create bool) error
	DeleteGroup(ctx context.Context, groupID string) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// GroupPushService mirrors local group mutations to the backend in the
// background. Push failures never roll back local state.
type GroupPushService struct {
	gateway groupGateway
	queue   jobQueue
	logger  *zap.Logger
}

// NewGroupPushService constructs the pusher. Call Attach once the queue
// exists; until then notifications are dropped.
func NewGroupPushService(gateway groupGateway, logger *zap.Logger) *GroupPushService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupPushService{gateway: gateway, logger: logger}
}

// Attach sets the queue used to dispatch pushes.
func (s *GroupPushService) Attach(queue jobQueue) {
	s.queue = queue
}

// GroupCreated schedules the creation of group on the backend.
func (s *GroupPushService) GroupCreated(group models.Group) {
	s.enqueue(jobs.Job{ID: group.ID, Type: JobGroupCreate, Payload: group})
}

// GroupUpdated schedules a replace of group on the backend.
func (s *GroupPushService) GroupUpdated(group models.Group) {
	s.enqueue(jobs.Job{ID: group.ID, Type: JobGroupUpdate, Payload: group})
}

// GroupDeleted schedules the removal of a group on the backend.
func (s *GroupPushService) GroupDeleted(groupID string) {
	s.enqueue(jobs.Job{ID: groupID, Type: JobGroupDelete, Payload: groupID})
}

// Handle is the jobs.Handler for the push queue.
func (s *GroupPushService) Handle(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case JobGroupCreate, JobGroupUpdate:
		group, ok := job.Payload.(models.Group)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
		}
		return s.gateway.PushGroup(ctx, group, job.Type == JobGroupCreate)
	case JobGroupDelete:
		id, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
		}
		return s.gateway.DeleteGroup(ctx, id)
	default:
		s.logger.Warn("unknown push job", zap.String("type", job.Type))
		return nil
	}
}

func (s *GroupPushService) enqueue(job jobs.Job) {
	if s == nil || s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to schedule group push", zap.String("type", job.Type), zap.String("group_id", job.ID), zap.Error(err))
	}
}
