package handler

import "peer-review/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Group  *GroupHandler
	Metric *MetricHandler
	Cycle  *ReviewCycleHandler
	Review *ReviewHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		User:   NewUserHandler(svc.User),
		Group:  NewGroupHandler(svc.Group),
		Metric: NewMetricHandler(svc.Metric),
		Cycle:  NewReviewCycleHandler(svc.Cycle),
		Review: NewReviewHandler(svc.Review),
		Export: NewExportHandler(svc.Export),
	}
}
