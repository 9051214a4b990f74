package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/service"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type exportServiceMock struct {
	lastReq dto.ExportRequest
	path    string
	openErr error
}

func (m *exportServiceMock) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResult, error) {
	m.lastReq = req
	return &dto.ExportResult{URL: "/api/v1/exports/tok", Token: "tok", Format: req.Format}, nil
}

func (m *exportServiceMock) Open(ctx context.Context, token string) (*service.ExportDownload, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	file, err := os.Open(m.path)
	if err != nil {
		return nil, err
	}
	return &service.ExportDownload{File: file, Filename: "attendance.csv", ContentType: "text/csv", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func TestExportHandlerExport(t *testing.T) {
	mockSvc := &exportServiceMock{}
	h := NewExportHandler(mockSvc)

	payload := `{"group_id":"g1","class_id":"c1","academic_year_id":"y1","format":"csv"}`
	c, w := newTestContext(http.MethodPost, "/attendance/export", strings.NewReader(payload), teacherClaims)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Export(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "t1", mockSvc.lastReq.TeacherID)
	assert.Equal(t, "g1", mockSvc.lastReq.GroupID)
	assert.Equal(t, "csv", mockSvc.lastReq.Format)
}

func TestExportHandlerDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.csv")
	require.NoError(t, os.WriteFile(path, []byte("Student,P\nAda,1\n"), 0o600))
	h := NewExportHandler(&exportServiceMock{path: path})

	c, w := newTestContext(http.MethodGet, "/exports/tok", nil, nil)
	c.Params = gin.Params{{Key: "token", Value: "tok"}}
	h.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance.csv")
	assert.Equal(t, "Student,P\nAda,1\n", w.Body.String())
}

func TestExportHandlerDownloadExpired(t *testing.T) {
	h := NewExportHandler(&exportServiceMock{openErr: appErrors.Clone(appErrors.ErrForbidden, "download link expired")})

	c, w := newTestContext(http.MethodGet, "/exports/old", nil, nil)
	c.Params = gin.Params{{Key: "token", Value: "old"}}
	h.Download(c)

	requireErrorCode(t, w, http.StatusForbidden, appErrors.ErrForbidden.Code)
}
