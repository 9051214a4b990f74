package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type recordingPusher struct {
	created []string
	updated []string
	deleted []string
}

func (p *recordingPusher) GroupCreated(group models.Group) { p.created = append(p.created, group.ID) }
func (p *recordingPusher) GroupUpdated(group models.Group) { p.updated = append(p.updated, group.ID) }
func (p *recordingPusher) GroupDeleted(groupID string)     { p.deleted = append(p.deleted, groupID) }

type groupFixture struct {
	svc     *GroupService
	engine  *membership.Engine
	audit   *mockAuditRepo
	pusher  *recordingPusher
	metrics *MetricsService
}

func newGroupFixture(t *testing.T) groupFixture {
	t.Helper()
	f := groupFixture{
		engine:  newTestEngine(t),
		audit:   &mockAuditRepo{},
		pusher:  &recordingPusher{},
		metrics: NewMetricsService(),
	}
	f.svc = NewGroupService(f.engine, nil, NewAuditService(f.audit, nil), f.pusher, f.metrics, nil)
	return f
}

func TestGroupServiceCreate(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, err := f.svc.Create(ctx, testActor, dto.CreateGroupRequest{
		Name:       "Morning",
		StudentIDs: []string{"s1", "s2"},
		ClassIDs:   []string{"c1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, group.StudentIDs)

	students, err := f.svc.Students(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	assert.Equal(t, []string{group.ID}, f.pusher.created)
	assert.Equal(t, []string{models.AuditActionGroupCreate}, f.audit.actions())
	require.NoError(t, f.engine.Verify())
}

func TestGroupServiceCreateRejections(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, testActor, dto.CreateGroupRequest{Name: "No classes"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = f.svc.Create(ctx, testActor, dto.CreateGroupRequest{Name: "A", StudentIDs: []string{"s1"}, ClassIDs: []string{"c1"}})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, testActor, dto.CreateGroupRequest{Name: "B", StudentIDs: []string{"s1", "s3"}, ClassIDs: []string{"c2"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrMembershipConflict))
	assert.Equal(t, []string{"s1"}, membership.ConflictingStudents(err))

	assert.Len(t, f.svc.List(ctx), 1)
	assert.Len(t, f.pusher.created, 1)
	assert.Len(t, f.audit.actions(), 1)
	assert.EqualValues(t, 1, f.metrics.Snapshot().MembershipRejections)
}

func TestGroupServiceUpdateAndAssignClass(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, err := f.svc.Create(ctx, testActor, dto.CreateGroupRequest{Name: "A", StudentIDs: []string{"s1"}, ClassIDs: []string{"c1"}})
	require.NoError(t, err)

	name := "Renamed"
	students := []string{"s2", "s3"}
	updated, err := f.svc.Update(ctx, testActor, group.ID, dto.UpdateGroupRequest{Name: &name, StudentIDs: &students})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, []string{"s2", "s3"}, updated.StudentIDs)

	s1Groups := f.engine.GroupsForStudent("s1")
	assert.Empty(t, s1Groups)

	assigned, err := f.svc.AssignClass(ctx, testActor, group.ID, "c2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, assigned.ClassIDs)

	_, err = f.svc.AssignClass(ctx, testActor, group.ID, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrUnknownReference))

	_, err = f.svc.Update(ctx, testActor, "missing", dto.UpdateGroupRequest{Name: &name})
	assert.True(t, errors.Is(err, membership.ErrGroupNotFound))

	assert.Equal(t, []string{group.ID, group.ID}, f.pusher.updated)
	require.NoError(t, f.engine.Verify())
}

func TestGroupServiceAuditKeepsPriorState(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, err := f.svc.Create(ctx, testActor, dto.CreateGroupRequest{Name: "A", StudentIDs: []string{"s1"}, ClassIDs: []string{"c1"}})
	require.NoError(t, err)
	students := []string{"s2"}
	_, err = f.svc.Update(ctx, testActor, group.ID, dto.UpdateGroupRequest{StudentIDs: &students})
	require.NoError(t, err)
	f.svc.Delete(ctx, testActor, group.ID)

	entries, err := f.audit.List(ctx, models.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var before, after models.Group
	require.NoError(t, json.Unmarshal(entries[1].OldValues, &before))
	require.NoError(t, json.Unmarshal(entries[1].NewValues, &after))
	assert.Equal(t, []string{"s1"}, before.StudentIDs)
	assert.Equal(t, []string{"s2"}, after.StudentIDs)

	var removed models.Group
	require.NoError(t, json.Unmarshal(entries[2].OldValues, &removed))
	assert.Equal(t, group.ID, removed.ID)
	assert.Equal(t, []string{"s2"}, removed.StudentIDs)
}

func TestGroupServiceDelete(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, err := f.svc.Create(ctx, testActor, dto.CreateGroupRequest{Name: "A", StudentIDs: []string{"s1"}, ClassIDs: []string{"c1"}})
	require.NoError(t, err)

	f.svc.Delete(ctx, testActor, group.ID)
	f.svc.Delete(ctx, testActor, group.ID)

	_, err = f.svc.Get(ctx, group.ID)
	assert.True(t, errors.Is(err, membership.ErrGroupNotFound))
	assert.Equal(t, []string{group.ID}, f.pusher.deleted)
	assert.Equal(t, []string{models.AuditActionGroupCreate, models.AuditActionGroupDelete}, f.audit.actions())

	student, ok := f.engine.StudentByID("s1")
	require.True(t, ok)
	assert.False(t, student.HasGroup())
	require.NoError(t, f.engine.Verify())
}

func TestGroupServiceWithoutOptionalCollaborators(t *testing.T) {
	svc := NewGroupService(newTestEngine(t), nil, nil, nil, nil, nil)
	group, err := svc.Create(context.Background(), testActor, dto.CreateGroupRequest{Name: "A", ClassIDs: []string{"c1"}})
	require.NoError(t, err)
	svc.Delete(context.Background(), testActor, group.ID)
	assert.Empty(t, svc.List(context.Background()))
}

func TestGroupServiceConsistency(t *testing.T) {
	f := newGroupFixture(t)
	_, err := f.svc.Create(context.Background(), testActor, dto.CreateGroupRequest{Name: "A", StudentIDs: []string{"s1"}, ClassIDs: []string{"c1"}})
	require.NoError(t, err)

	report := f.svc.Consistency(context.Background())
	assert.True(t, report.Consistent)
	assert.Empty(t, report.Violation)
	assert.Equal(t, 4, report.Students)
	assert.Equal(t, 1, report.Groups)
	assert.Equal(t, 2, report.Teachers)
}
