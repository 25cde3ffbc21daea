package handler

import (
	"github.com/gin-gonic/gin"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/service"
	"peer-review/backend/pkg/response"
)

// MetricHandler 指标模块 HTTP 处理器
type MetricHandler struct {
	metricSvc service.MetricService
}

// NewMetricHandler 创建 MetricHandler
func NewMetricHandler(metricSvc service.MetricService) *MetricHandler {
	return &MetricHandler{metricSvc: metricSvc}
}

// Create 创建指标（管理员）
// POST /api/v1/metrics
func (h *MetricHandler) Create(c *gin.Context) {
	var req dto.CreateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.metricSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// List 指标列表
// GET /api/v1/metrics?cycle_id=xxx
func (h *MetricHandler) List(c *gin.Context) {
	result, err := h.metricSvc.List(c.Request.Context(), c.Query("cycle_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
