package dto

// ── 评审周期模块 DTO ──

// CreateReviewCycleRequest 创建评审周期请求
type CreateReviewCycleRequest struct {
	Name      string   `json:"name"       binding:"required,min=1,max=100"`
	GroupID   string   `json:"group_id"   binding:"required,uuid"`
	StartDate string   `json:"start_date" binding:"required"` // "2026-06-01"
	EndDate   string   `json:"end_date"   binding:"required"` // "2026-06-15"
	MetricIDs []string `json:"metric_ids" binding:"omitempty,dive,uuid"`
}

// ReviewCycleResponse 评审周期信息响应
type ReviewCycleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// ParticipantResponse 周期参与者信息
type ParticipantResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsSelf   bool   `json:"is_self"`
}

// ParticipantsAndMetricsResponse 周期参与者与指标响应
// 前端用其渲染完整的评分矩阵（指标 × 成员）
type ParticipantsAndMetricsResponse struct {
	CycleID      string                `json:"cycle_id"`
	CycleName    string                `json:"cycle_name"`
	StartDate    string                `json:"start_date"`
	EndDate      string                `json:"end_date"`
	Metrics      []MetricResponse      `json:"metrics"`
	Participants []ParticipantResponse `json:"participants"`
}
