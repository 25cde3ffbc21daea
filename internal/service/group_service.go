package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/model"
	"peer-review/backend/internal/repository"
)

// ── 小组模块业务错误 ──

var ErrGroupNotFound = errors.New("小组不存在")

// GroupService 小组业务接口
type GroupService interface {
	Create(ctx context.Context, req *dto.CreateGroupRequest, callerID string) (*dto.GroupResponse, error)
	GetByID(ctx context.Context, id string) (*dto.GroupDetailResponse, error)
	List(ctx context.Context) ([]dto.GroupResponse, error)
	Delete(ctx context.Context, id string) error
	UpdateMembers(ctx context.Context, id string, req *dto.UpdateGroupUsersRequest) error
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *groupService) Create(ctx context.Context, req *dto.CreateGroupRequest, callerID string) (*dto.GroupResponse, error) {
	group := &model.Group{Name: req.Name}
	group.CreatedBy = &callerID
	group.UpdatedBy = &callerID

	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.logger.Error("创建小组失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	return &dto.GroupResponse{ID: group.GroupID, Name: group.Name}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *groupService) GetByID(ctx context.Context, id string) (*dto.GroupDetailResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	members := make([]dto.UserResponse, 0, len(group.Members))
	for i := range group.Members {
		members = append(members, toUserResponse(&group.Members[i]))
	}

	return &dto.GroupDetailResponse{
		ID:      group.GroupID,
		Name:    group.Name,
		Members: members,
	}, nil
}

// ────────────────────── List ──────────────────────

func (s *groupService) List(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		s.logger.Error("列出小组失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, dto.GroupResponse{
			ID:           groups[i].GroupID,
			Name:         groups[i].Name,
			MembersCount: len(groups[i].Members),
		})
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *groupService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Group.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Group.Delete(ctx, id); err != nil {
		s.logger.Error("删除小组失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── UpdateMembers ──────────────────────

// UpdateMembers 整体替换成员名单
// 成员名单决定后续提交的必评对象集合，因此用全量替换而非增量修改
func (s *groupService) UpdateMembers(ctx context.Context, id string, req *dto.UpdateGroupUsersRequest) error {
	if _, err := s.repo.Group.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Group.ReplaceMembers(ctx, id, req.UserIDs); err != nil {
		s.logger.Error("更新小组成员失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
