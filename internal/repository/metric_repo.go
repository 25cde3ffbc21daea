package repository

import (
	"context"

	"gorm.io/gorm"

	"peer-review/backend/internal/model"
)

// MetricRepository 指标数据访问接口
type MetricRepository interface {
	Create(ctx context.Context, metric *model.Metric, cycleIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Metric, error)
	List(ctx context.Context) ([]model.Metric, error)
	ListByCycle(ctx context.Context, cycleID string) ([]model.Metric, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Metric, error)
}

// metricRepo MetricRepository 的 GORM 实现
type metricRepo struct {
	db *gorm.DB
}

// NewMetricRepo 创建 MetricRepository 实例
func NewMetricRepo(db *gorm.DB) MetricRepository {
	return &metricRepo{db: db}
}

// Create 创建指标并挂接到指定周期
func (r *metricRepo) Create(ctx context.Context, metric *model.Metric, cycleIDs []string) error {
	if len(cycleIDs) > 0 {
		var cycles []model.ReviewCycle
		if err := r.db.WithContext(ctx).Where("cycle_id IN ?", cycleIDs).Find(&cycles).Error; err != nil {
			return err
		}
		metric.Cycles = cycles
	}
	return r.db.WithContext(ctx).Create(metric).Error
}

func (r *metricRepo) GetByID(ctx context.Context, id string) (*model.Metric, error) {
	var metric model.Metric
	err := r.db.WithContext(ctx).
		Where("metric_id = ?", id).
		First(&metric).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

func (r *metricRepo) List(ctx context.Context) ([]model.Metric, error) {
	var metrics []model.Metric
	err := r.db.WithContext(ctx).
		Preload("Cycles").
		Order("name").
		Find(&metrics).Error
	return metrics, err
}

// ListByCycle 查询挂接到指定周期的全部指标（即该周期的必评指标集合）
func (r *metricRepo) ListByCycle(ctx context.Context, cycleID string) ([]model.Metric, error) {
	var metrics []model.Metric
	err := r.db.WithContext(ctx).
		Joins("JOIN review_cycle_metrics rcm ON rcm.metric_id = metrics.metric_id").
		Where("rcm.review_cycle_id = ?", cycleID).
		Order("metrics.name").
		Find(&metrics).Error
	return metrics, err
}

func (r *metricRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Metric, error) {
	var metrics []model.Metric
	err := r.db.WithContext(ctx).
		Where("metric_id IN ?", ids).
		Find(&metrics).Error
	return metrics, err
}
