package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/pkg/response"
)

type syncService interface {
	Refresh(ctx context.Context, req dto.SyncRequest) (*dto.SyncResult, error)
}

// SyncHandler triggers a pull of the working set from the backend.
type SyncHandler struct {
	service syncService
}

// NewSyncHandler constructs a sync handler.
func NewSyncHandler(svc syncService) *SyncHandler {
	return &SyncHandler{service: svc}
}

// Refresh godoc
// @Summary Refresh students, classes and groups from the backend
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body dto.SyncRequest false "Selection; empty fields use the configured defaults"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Refresh(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, invalidPayload(err))
		return
	}
	teacherID, err := scopedTeacherID(c, req.TeacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.TeacherID = teacherID

	result, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
