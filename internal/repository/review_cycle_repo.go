package repository

import (
	"context"

	"gorm.io/gorm"

	"peer-review/backend/internal/model"
)

// ReviewCycleRepository 评审周期数据访问接口
type ReviewCycleRepository interface {
	Create(ctx context.Context, cycle *model.ReviewCycle, metricIDs []string) error
	// GetActiveByID 仅返回 is_active=true 的周期；不存在或已停用均返回 gorm.ErrRecordNotFound
	GetActiveByID(ctx context.Context, id string) (*model.ReviewCycle, error)
	// GetByID 不区分活跃状态，供导出历史周期数据使用
	GetByID(ctx context.Context, id string) (*model.ReviewCycle, error)
	ListActive(ctx context.Context, groupID string) ([]model.ReviewCycle, error)
}

// reviewCycleRepo ReviewCycleRepository 的 GORM 实现
type reviewCycleRepo struct {
	db *gorm.DB
}

// NewReviewCycleRepo 创建 ReviewCycleRepository 实例
func NewReviewCycleRepo(db *gorm.DB) ReviewCycleRepository {
	return &reviewCycleRepo{db: db}
}

// Create 创建评审周期并挂接必评指标
func (r *reviewCycleRepo) Create(ctx context.Context, cycle *model.ReviewCycle, metricIDs []string) error {
	if len(metricIDs) > 0 {
		var metrics []model.Metric
		if err := r.db.WithContext(ctx).Where("metric_id IN ?", metricIDs).Find(&metrics).Error; err != nil {
			return err
		}
		cycle.Metrics = metrics
	}
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *reviewCycleRepo) GetActiveByID(ctx context.Context, id string) (*model.ReviewCycle, error) {
	var cycle model.ReviewCycle
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Metrics").
		Where("cycle_id = ? AND is_active = ?", id, true).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *reviewCycleRepo) GetByID(ctx context.Context, id string) (*model.ReviewCycle, error) {
	var cycle model.ReviewCycle
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Metrics").
		Where("cycle_id = ?", id).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

// ListActive 按开始日期列出活跃周期；groupID 非空时按小组过滤
func (r *reviewCycleRepo) ListActive(ctx context.Context, groupID string) ([]model.ReviewCycle, error) {
	q := r.db.WithContext(ctx).
		Preload("Group").
		Where("is_active = ?", true).
		Order("start_date")
	if groupID != "" {
		q = q.Where("group_id = ?", groupID)
	}

	var cycles []model.ReviewCycle
	err := q.Find(&cycles).Error
	return cycles, err
}
