package dto

// ── 批量评分提交 DTO ──

// RatingEntry 单条评分：一个被评人在一个指标上的分值
type RatingEntry struct {
	TargetUser string  `json:"target_user" binding:"required,uuid"`
	Value      float64 `json:"value"`
}

// MetricRatings 一个指标块：该指标下所有被评人的分值
type MetricRatings struct {
	Metric string        `json:"metric" binding:"required,uuid"`
	Values []RatingEntry `json:"values" binding:"required,min=1,dive"`
}

// BulkSubmitRequest 批量评分提交请求
// 一次提交必须覆盖周期全部指标 × 小组全部成员（含提交人自评）
type BulkSubmitRequest struct {
	Ratings []MetricRatings `json:"ratings" binding:"required,min=1,dive"`
}

// SubmittedRating 已落库评分回显（读回，非写入）
type SubmittedRating struct {
	TargetUser   string  `json:"target_user"` // 用户名
	Metric       string  `json:"metric"`      // 指标名
	Value        float64 `json:"value"`
	IsSelfReview bool    `json:"is_self_review"`
}

// BulkSubmitResponse 批量评分提交成功响应
type BulkSubmitResponse struct {
	Message   string            `json:"message"`
	Submitted []SubmittedRating `json:"submitted"`
}

// ── 校验失败详情（响应的 details 字段） ──

// MissingMetricsDetail 缺失指标详情
type MissingMetricsDetail struct {
	MissingMetrics []string `json:"missing_metrics"`
}

// UnknownMetricDetail 未挂接指标详情
type UnknownMetricDetail struct {
	Metric string `json:"metric"`
}

// MissingUsersDetail 某指标下缺失被评人详情
type MissingUsersDetail struct {
	Metric       string   `json:"metric"`
	MissingUsers []string `json:"missing_users"`
}

// UnknownUserDetail 非小组成员被评人详情
type UnknownUserDetail struct {
	Metric     string `json:"metric,omitempty"`
	TargetUser string `json:"target_user"`
}

// ── 匿名短评 DTO ──

// SubmitNoteRequest 提交匿名短评请求
type SubmitNoteRequest struct {
	TargetUser string `json:"target_user" binding:"required,uuid"`
	Note       string `json:"note"        binding:"required,min=1,max=2000"`
}

// NoteResponse 匿名短评响应
type NoteResponse struct {
	ID         string `json:"id"`
	TargetUser string `json:"target_user"`
	Note       string `json:"note"`
	CreatedAt  string `json:"created_at"`
}
