package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/model"
	"peer-review/backend/internal/repository"
)

// ── 指标模块业务错误 ──

var ErrMetricNotFound = errors.New("指标不存在")

// MetricService 指标业务接口
type MetricService interface {
	Create(ctx context.Context, req *dto.CreateMetricRequest, callerID string) (*dto.MetricResponse, error)
	List(ctx context.Context, cycleID string) ([]dto.MetricResponse, error)
}

type metricService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMetricService 创建 MetricService 实例
func NewMetricService(repo *repository.Repository, logger *zap.Logger) MetricService {
	return &metricService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *metricService) Create(ctx context.Context, req *dto.CreateMetricRequest, callerID string) (*dto.MetricResponse, error) {
	metric := &model.Metric{
		Name:        req.Name,
		Description: req.Description,
	}
	metric.CreatedBy = &callerID
	metric.UpdatedBy = &callerID

	if err := s.repo.Metric.Create(ctx, metric, req.CycleIDs); err != nil {
		s.logger.Error("创建指标失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	resp := toMetricResponse(metric)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

// List 列出指标；cycleID 非空时仅返回挂接到该周期的指标
func (s *metricService) List(ctx context.Context, cycleID string) ([]dto.MetricResponse, error) {
	var (
		metrics []model.Metric
		err     error
	)
	if cycleID != "" {
		metrics, err = s.repo.Metric.ListByCycle(ctx, cycleID)
	} else {
		metrics, err = s.repo.Metric.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出指标失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MetricResponse, 0, len(metrics))
	for i := range metrics {
		result = append(result, toMetricResponse(&metrics[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func toMetricResponse(metric *model.Metric) dto.MetricResponse {
	cycleIDs := make([]string, 0, len(metric.Cycles))
	for i := range metric.Cycles {
		cycleIDs = append(cycleIDs, metric.Cycles[i].CycleID)
	}
	return dto.MetricResponse{
		ID:          metric.MetricID,
		Name:        metric.Name,
		Description: metric.Description,
		CycleIDs:    cycleIDs,
	}
}
