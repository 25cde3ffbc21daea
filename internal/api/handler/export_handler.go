package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"peer-review/backend/internal/service"
	"peer-review/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRatings 导出周期评分为 Excel（管理员）
// GET /api/v1/export/ratings?cycle_id=xxx
func (h *ExportHandler) ExportRatings(c *gin.Context) {
	cycleID := c.Query("cycle_id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "cycle_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportRatings(c.Request.Context(), cycleID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 14001, "评审周期不存在")
	case errors.Is(err, service.ErrExportNoRatings):
		response.NotFound(c, 16001, "该周期暂无评分记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
