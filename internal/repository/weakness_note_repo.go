package repository

import (
	"context"

	"gorm.io/gorm"

	"peer-review/backend/internal/model"
)

// WeaknessNoteRepository 匿名短评数据访问接口
type WeaknessNoteRepository interface {
	Create(ctx context.Context, note *model.WeaknessNote) error
	ListByCycleTarget(ctx context.Context, cycleID, targetUserID string) ([]model.WeaknessNote, error)
}

// weaknessNoteRepo WeaknessNoteRepository 的 GORM 实现
type weaknessNoteRepo struct {
	db *gorm.DB
}

// NewWeaknessNoteRepo 创建 WeaknessNoteRepository 实例
func NewWeaknessNoteRepo(db *gorm.DB) WeaknessNoteRepository {
	return &weaknessNoteRepo{db: db}
}

func (r *weaknessNoteRepo) Create(ctx context.Context, note *model.WeaknessNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *weaknessNoteRepo) ListByCycleTarget(ctx context.Context, cycleID, targetUserID string) ([]model.WeaknessNote, error) {
	var notes []model.WeaknessNote
	err := r.db.WithContext(ctx).
		Where("review_cycle_id = ? AND target_user_id = ?", cycleID, targetUserID).
		Order("created_at").
		Find(&notes).Error
	return notes, err
}
