package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"peer-review/backend/internal/dto"
)

func setupTestGroupService() (GroupService, *testReviewRepos) {
	repos := newTestReviewRepos()
	svc := NewGroupService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func TestGroupCreateAndGet(t *testing.T) {
	svc, _ := setupTestGroupService()

	created, err := svc.Create(context.Background(), &dto.CreateGroupRequest{Name: "测试组"}, "u-admin")
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if got.Name != "测试组" {
		t.Errorf("Name = %s, 期望 测试组", got.Name)
	}
}

func TestGroupGetNotFound(t *testing.T) {
	svc, _ := setupTestGroupService()

	_, err := svc.GetByID(context.Background(), "g-missing")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("错误 = %v, 期望 ErrGroupNotFound", err)
	}
}

func TestGroupUpdateMembersReplacesWholeList(t *testing.T) {
	svc, repos := setupTestGroupService()
	seedReviewCycle(repos)

	err := svc.UpdateMembers(context.Background(), "g-dev", &dto.UpdateGroupUsersRequest{
		UserIDs: []string{"u-alice", "u-dave"},
	})
	if err != nil {
		t.Fatalf("UpdateMembers 失败: %v", err)
	}

	ids, _ := repos.group.ListMemberIDs(context.Background(), "g-dev")
	if len(ids) != 2 || ids[0] != "u-alice" || ids[1] != "u-dave" {
		t.Errorf("成员 = %v, 期望 [u-alice u-dave]", ids)
	}
}

func TestGroupUpdateMembersNotFound(t *testing.T) {
	svc, _ := setupTestGroupService()

	err := svc.UpdateMembers(context.Background(), "g-missing", &dto.UpdateGroupUsersRequest{UserIDs: nil})
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("错误 = %v, 期望 ErrGroupNotFound", err)
	}
}

func TestGroupDelete(t *testing.T) {
	svc, repos := setupTestGroupService()
	seedReviewCycle(repos)

	if err := svc.Delete(context.Background(), "g-dev"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := repos.group.GetByID(context.Background(), "g-dev"); err == nil {
		t.Error("删除后小组不应存在")
	}
}
