package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/response"
)

type attendanceService interface {
	Sessions(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceSession, error)
	Matrix(ctx context.Context, filter models.AttendanceFilter) (*models.AttendanceMatrix, error)
	Stats(ctx context.Context, filter models.AttendanceFilter) (*models.AttendanceStats, error)
}

// AttendanceHandler exposes the attendance read endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Sessions godoc
// @Summary List attendance sessions
// @Tags Attendance
// @Produce json
// @Param teacher_id query string false "Teacher ID (defaults to the caller)"
// @Param group_id query string true "Group ID"
// @Param class_id query string true "Class ID"
// @Param academic_year_id query string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/sessions [get]
func (h *AttendanceHandler) Sessions(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	sessions, err := h.service.Sessions(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sessions)
}

// Matrix godoc
// @Summary Student by date attendance matrix
// @Tags Attendance
// @Produce json
// @Param teacher_id query string false "Teacher ID (defaults to the caller)"
// @Param group_id query string true "Group ID"
// @Param class_id query string true "Class ID"
// @Param academic_year_id query string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/matrix [get]
func (h *AttendanceHandler) Matrix(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	matrix, err := h.service.Matrix(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, matrix)
}

// Stats godoc
// @Summary Attendance totals
// @Tags Attendance
// @Produce json
// @Param teacher_id query string false "Teacher ID (defaults to the caller)"
// @Param group_id query string true "Group ID"
// @Param class_id query string true "Class ID"
// @Param academic_year_id query string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/stats [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

func bindFilter(c *gin.Context) (models.AttendanceFilter, bool) {
	var filter models.AttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, invalidPayload(err))
		return filter, false
	}
	teacherID, err := scopedTeacherID(c, filter.TeacherID)
	if err != nil {
		response.Error(c, err)
		return filter, false
	}
	filter.TeacherID = teacherID
	return filter, true
}
