package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/response"
)

type groupService interface {
	List(ctx context.Context) []models.Group
	Get(ctx context.Context, id string) (*models.Group, error)
	Students(ctx context.Context, id string) ([]models.Student, error)
	Create(ctx context.Context, actor models.Actor, req dto.CreateGroupRequest) (*models.Group, error)
	Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateGroupRequest) (*models.Group, error)
	AssignClass(ctx context.Context, actor models.Actor, groupID, classID string) (*models.Group, error)
	Delete(ctx context.Context, actor models.Actor, id string)
	Consistency(ctx context.Context) dto.ConsistencyReport
}

// GroupHandler exposes group membership endpoints.
type GroupHandler struct {
	service groupService
}

// NewGroupHandler constructs a group handler.
func NewGroupHandler(svc groupService) *GroupHandler {
	return &GroupHandler{service: svc}
}

// List godoc
// @Summary List groups
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	response.List(c, h.service.List(c.Request.Context()))
}

// Get godoc
// @Summary Get group detail
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// Students godoc
// @Summary List group members
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/students [get]
func (h *GroupHandler) Students(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Create godoc
// @Summary Create group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body dto.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	group, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param payload body dto.UpdateGroupRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	group, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// AssignClass godoc
// @Summary Attach a class to a group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/classes/{classId} [post]
func (h *GroupHandler) AssignClass(c *gin.Context) {
	group, err := h.service.AssignClass(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// Delete godoc
// @Summary Delete group
// @Tags Groups
// @Param id path string true "Group ID"
// @Success 204
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id"))
	response.NoContent(c)
}

// Consistency godoc
// @Summary Check membership invariants
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /consistency [get]
func (h *GroupHandler) Consistency(c *gin.Context) {
	report := h.service.Consistency(c.Request.Context())
	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusInternalServerError
	}
	response.JSON(c, status, report)
}
