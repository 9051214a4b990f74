package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/response"
)

type teacherService interface {
	List(ctx context.Context) []models.Teacher
	Get(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error)
	Groups(ctx context.Context, teacherID string) []models.Group
}

type teacherClasses interface {
	List(ctx context.Context, teacherID string) []models.Class
}

// TeacherHandler exposes teacher endpoints.
type TeacherHandler struct {
	service teacherService
	classes teacherClasses
}

// NewTeacherHandler constructs a teacher handler.
func NewTeacherHandler(svc teacherService, classes teacherClasses) *TeacherHandler {
	return &TeacherHandler{service: svc, classes: classes}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	response.List(c, h.service.List(c.Request.Context()))
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.service.Get(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Create godoc
// @Summary Register teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	teacher, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Groups godoc
// @Summary List the groups a teacher teaches
// @Tags Teachers
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/groups [get]
func (h *TeacherHandler) Groups(c *gin.Context) {
	response.OK(c, h.service.Groups(c.Request.Context(), c.Param("teacherId")))
}

// Classes godoc
// @Summary List the classes a teacher teaches
// @Tags Teachers
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/classes [get]
func (h *TeacherHandler) Classes(c *gin.Context) {
	response.OK(c, h.classes.List(c.Request.Context(), c.Param("teacherId")))
}
