package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/model"
	"peer-review/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var ErrUsernameTaken = errors.New("用户名或邮箱已被占用")

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	List(ctx context.Context, groupID string) ([]dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleMember
	}

	user := &model.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		// 用户名/邮箱唯一约束冲突归为同一业务错误，避免探测已注册邮箱
		s.logger.Warn("创建用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, ErrUsernameTaken
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

// List 列出用户；groupID 非空时仅返回该小组成员
func (s *userService) List(ctx context.Context, groupID string) ([]dto.UserResponse, error) {
	var (
		users []model.User
		err   error
	)
	if groupID != "" {
		users, err = s.repo.User.ListByGroup(ctx, groupID)
	} else {
		users, err = s.repo.User.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}
