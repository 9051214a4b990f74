package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/dto"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type syncServiceMock struct {
	lastReq dto.SyncRequest
	err     error
}

func (m *syncServiceMock) Refresh(ctx context.Context, req dto.SyncRequest) (*dto.SyncResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SyncResult{Students: 4, Classes: 2, Groups: 1}, nil
}

func TestSyncHandlerEmptyBody(t *testing.T) {
	mockSvc := &syncServiceMock{}
	h := NewSyncHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/sync", nil, teacherClaims)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Refresh(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t1", mockSvc.lastReq.TeacherID)
	assert.Contains(t, w.Body.String(), `"students":4`)
}

func TestSyncHandlerGatewayDown(t *testing.T) {
	h := NewSyncHandler(&syncServiceMock{err: appErrors.Clone(appErrors.ErrGatewayUnavailable, "remote data gateway is not configured")})

	c, w := newTestContext(http.MethodPost, "/sync", strings.NewReader(`{"group_id":"g1"}`), adminClaims)
	h.Refresh(c)

	requireErrorCode(t, w, http.StatusBadGateway, appErrors.ErrGatewayUnavailable.Code)
}
