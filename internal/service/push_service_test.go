package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/jobs"
)

type fakeGroupGateway struct {
	mu      sync.Mutex
	pushed  []string
	deleted []string
	fail    int
}

func (f *fakeGroupGateway) PushGroup(ctx context.Context, group models.Group, create bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return errors.New("backend down")
	}
	op := "update"
	if create {
		op = "create"
	}
	f.pushed = append(f.pushed, op+":"+group.ID)
	return nil
}

func (f *fakeGroupGateway) DeleteGroup(ctx context.Context, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, groupID)
	return nil
}

func TestGroupPushServiceThroughQueue(t *testing.T) {
	gw := &fakeGroupGateway{fail: 1}
	pusher := NewGroupPushService(gw, nil)
	metrics := NewMetricsService()
	queue := jobs.NewQueue("group-push", pusher.Handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Observer:   metrics,
	})
	pusher.Attach(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	pusher.GroupCreated(models.Group{ID: "g1"})
	pusher.GroupUpdated(models.Group{ID: "g1"})
	pusher.GroupDeleted("g1")

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	require.NoError(t, queue.Wait(waitCtx))

	gw.mu.Lock()
	defer gw.mu.Unlock()
	assert.ElementsMatch(t, []string{"create:g1", "update:g1"}, gw.pushed)
	assert.Equal(t, []string{"g1"}, gw.deleted)
}

func TestGroupPushServiceWithoutQueue(t *testing.T) {
	gw := &fakeGroupGateway{}
	pusher := NewGroupPushService(gw, nil)
	pusher.GroupCreated(models.Group{ID: "g1"})

	err := pusher.Handle(context.Background(), jobs.Job{ID: "x", Type: JobGroupCreate, Payload: "wrong"})
	assert.Error(t, err)
	assert.NoError(t, pusher.Handle(context.Background(), jobs.Job{ID: "x", Type: "unknown"}))
	assert.Empty(t, gw.pushed)
}
