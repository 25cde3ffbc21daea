package dto

// ── 指标模块 DTO ──

// CreateMetricRequest 创建指标请求
type CreateMetricRequest struct {
	Name        string   `json:"name"        binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	CycleIDs    []string `json:"cycle_ids"   binding:"omitempty,dive,uuid"`
}

// MetricResponse 指标信息响应
type MetricResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CycleIDs    []string `json:"cycle_ids,omitempty"`
}
