package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
	"github.com/noah-isme/classroll-api/pkg/response"
)

type captureService interface {
	Submit(ctx context.Context, actor models.Actor, req dto.CaptureRequest) (*dto.CaptureResult, error)
	InProgress(teacherID string) bool
}

// CaptureHandler accepts attendance captures.
type CaptureHandler struct {
	service captureService
}

// NewCaptureHandler constructs a capture handler.
func NewCaptureHandler(svc captureService) *CaptureHandler {
	return &CaptureHandler{service: svc}
}

// Capture godoc
// @Summary Capture attendance from a photo
// @Description Submits an uploaded photo, or a frame pulled from the configured camera when none is uploaded, for face recognition.
// @Tags Attendance
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file false "Classroom photo (JPEG or PNG)"
// @Param teacher_id formData string false "Teacher ID (defaults to the caller)"
// @Param class_id formData string true "Class ID"
// @Param group_id formData string true "Group ID"
// @Param academic_year_id formData string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /attendance/capture [post]
func (h *CaptureHandler) Capture(c *gin.Context) {
	teacherID, err := scopedTeacherID(c, c.PostForm("teacher_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	req := dto.CaptureRequest{
		TeacherID:      teacherID,
		ClassID:        c.PostForm("class_id"),
		GroupID:        c.PostForm("group_id"),
		AcademicYearID: c.PostForm("academic_year_id"),
	}

	if header, err := c.FormFile("photo"); err == nil {
		file, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read photo"))
			return
		}
		defer file.Close()
		if req.Photo, err = io.ReadAll(file); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read photo"))
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		response.Error(c, invalidPayload(err))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Status godoc
// @Summary Whether a capture is running for a teacher
// @Tags Attendance
// @Produce json
// @Param teacher_id query string false "Teacher ID (defaults to the caller)"
// @Success 200 {object} response.Envelope
// @Router /attendance/capture/status [get]
func (h *CaptureHandler) Status(c *gin.Context) {
	teacherID, err := scopedTeacherID(c, c.Query("teacher_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"teacher_id": teacherID, "in_progress": h.service.InProgress(teacherID)})
}
