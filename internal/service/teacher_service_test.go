package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/dto"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

func TestTeacherServiceCreate(t *testing.T) {
	svc := NewTeacherService(newTestEngine(t), nil, nil)
	ctx := context.Background()

	teacher, err := svc.Create(ctx, dto.CreateTeacherRequest{Name: "Uma", Email: "Uma@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "uma@example.com", teacher.Email)

	_, err = svc.Create(ctx, dto.CreateTeacherRequest{Name: "Tess again", Email: "TESS@example.com"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Create(ctx, dto.CreateTeacherRequest{Name: "No mail"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Len(t, svc.List(ctx), 3)
}

func TestTeacherServiceGroups(t *testing.T) {
	engine := newTestEngine(t)
	svc := NewTeacherService(engine, nil, nil)
	ctx := context.Background()

	_, err := NewGroupService(engine, nil, nil, nil, nil, nil).Create(ctx, testActor, dto.CreateGroupRequest{Name: "A", ClassIDs: []string{"c2"}})
	require.NoError(t, err)

	assert.Len(t, svc.Groups(ctx, "t2"), 1)
	assert.Empty(t, svc.Groups(ctx, "t1"))

	_, err = svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
