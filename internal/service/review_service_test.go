package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"peer-review/backend/internal/dto"
	"peer-review/backend/internal/model"
	"peer-review/backend/internal/repository"
)

// ── 测试辅助 ──

// testReviewRepos 聚合所有 mock repo 便于 seed 数据
type testReviewRepos struct {
	user       *mockUserRepo
	group      *mockGroupRepo
	metric     *mockMetricRepo
	cycle      *mockReviewCycleRepo
	rating     *mockRatingRepo
	submission *mockSubmissionStatusRepo
	note       *mockWeaknessNoteRepo
}

func newTestReviewRepos() *testReviewRepos {
	return &testReviewRepos{
		user:       newMockUserRepo(),
		group:      newMockGroupRepo(),
		metric:     newMockMetricRepo(),
		cycle:      newMockReviewCycleRepo(),
		rating:     newMockRatingRepo(),
		submission: newMockSubmissionStatusRepo(),
		note:       newMockWeaknessNoteRepo(),
	}
}

func (r *testReviewRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:             r.user,
		Group:            r.group,
		Metric:           r.metric,
		ReviewCycle:      r.cycle,
		Rating:           r.rating,
		SubmissionStatus: r.submission,
		WeaknessNote:     r.note,
	}
}

func setupTestReviewService() (ReviewService, *testReviewRepos) {
	repos := newTestReviewRepos()
	svc := NewReviewService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// seedReviewCycle 种子数据：1个小组（3名成员）+ 活跃周期 + 2个必评指标
func seedReviewCycle(repos *testReviewRepos) {
	repos.user.users["u-alice"] = &model.User{UserID: "u-alice", Username: "alice", Role: model.RoleMember}
	repos.user.users["u-bob"] = &model.User{UserID: "u-bob", Username: "bob", Role: model.RoleMember}
	repos.user.users["u-carol"] = &model.User{UserID: "u-carol", Username: "carol", Role: model.RoleMember}
	repos.user.users["u-dave"] = &model.User{UserID: "u-dave", Username: "dave", Role: model.RoleMember} // 非成员

	members := []string{"u-alice", "u-bob", "u-carol"}
	repos.group.groups["g-dev"] = &model.Group{GroupID: "g-dev", Name: "研发组"}
	repos.group.members["g-dev"] = members
	repos.user.memberships["g-dev"] = members

	mQuality := model.Metric{MetricID: "m-quality", Name: "代码质量"}
	mTeamwork := model.Metric{MetricID: "m-teamwork", Name: "协作"}
	repos.metric.metrics["m-quality"] = &mQuality
	repos.metric.metrics["m-teamwork"] = &mTeamwork

	repos.cycle.cycles["cyc-1"] = &model.ReviewCycle{
		CycleID:  "cyc-1",
		Name:     "2026 Q3",
		GroupID:  "g-dev",
		IsActive: true,
		Metrics:  []model.Metric{mQuality, mTeamwork},
	}
}

// fullSubmission 覆盖 2 指标 × 3 成员的完整提交
func fullSubmission() *dto.BulkSubmitRequest {
	return &dto.BulkSubmitRequest{
		Ratings: []dto.MetricRatings{
			{Metric: "m-quality", Values: []dto.RatingEntry{
				{TargetUser: "u-alice", Value: 4},
				{TargetUser: "u-bob", Value: 5},
				{TargetUser: "u-carol", Value: 3},
			}},
			{Metric: "m-teamwork", Values: []dto.RatingEntry{
				{TargetUser: "u-alice", Value: 3},
				{TargetUser: "u-bob", Value: 4},
				{TargetUser: "u-carol", Value: 5},
			}},
		},
	}
}

// ── BulkSubmit ──

func TestBulkSubmitSuccess(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	resp, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission())
	if err != nil {
		t.Fatalf("BulkSubmit 失败: %v", err)
	}
	if len(resp.Submitted) != 6 {
		t.Fatalf("回显条数 = %d, 期望 6", len(resp.Submitted))
	}

	// 落库 6 条，其中 alice 的 2 条为自评（服务端推导）
	if len(repos.rating.ratings) != 6 {
		t.Fatalf("落库评分数 = %d, 期望 6", len(repos.rating.ratings))
	}
	selfCount := 0
	for key, r := range repos.rating.ratings {
		if r.IsSelfReview {
			selfCount++
			if key.targetID != "u-alice" {
				t.Errorf("自评被评人 = %s, 期望 u-alice", key.targetID)
			}
		}
	}
	if selfCount != 2 {
		t.Errorf("自评条数 = %d, 期望 2", selfCount)
	}

	// 提交状态已定稿
	st, err := repos.submission.Get(context.Background(), "u-alice", "cyc-1")
	if err != nil || !st.Finalized {
		t.Errorf("提交状态未定稿: status=%+v err=%v", st, err)
	}
}

func TestBulkSubmitEchoUsesNames(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	resp, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-bob", fullSubmission())
	if err != nil {
		t.Fatalf("BulkSubmit 失败: %v", err)
	}
	// 回显用用户名/指标名而非 ID
	for _, s := range resp.Submitted {
		switch s.TargetUser {
		case "alice", "bob", "carol":
		default:
			t.Fatalf("回显被评人 = %q, 期望用户名", s.TargetUser)
		}
		if s.Metric != "代码质量" && s.Metric != "协作" {
			t.Fatalf("回显指标 = %q, 期望指标名", s.Metric)
		}
	}
}

func TestBulkSubmitResubmitAfterFinalize(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	if _, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission()); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}
	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission())
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("重复提交错误 = %v, 期望 ErrAlreadyFinalized", err)
	}
	// 不同提交人的定稿互不影响
	if _, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-bob", fullSubmission()); err != nil {
		t.Fatalf("其他成员提交失败: %v", err)
	}
}

func TestBulkSubmitCycleNotFound(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	_, err := svc.BulkSubmit(context.Background(), "cyc-missing", "u-alice", fullSubmission())
	if !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("错误 = %v, 期望 ErrCycleNotFound", err)
	}
}

func TestBulkSubmitInactiveCycle(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)
	repos.cycle.cycles["cyc-1"].IsActive = false

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission())
	if !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("错误 = %v, 期望 ErrCycleNotFound", err)
	}
}

func TestBulkSubmitNotGroupMember(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-dave", fullSubmission())
	if !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("错误 = %v, 期望 ErrNotGroupMember", err)
	}
	if len(repos.rating.ratings) != 0 {
		t.Errorf("非成员提交不应落库任何评分")
	}
}

func TestBulkSubmitUnknownMetric(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	req := fullSubmission()
	req.Ratings[1].Metric = "m-attendance" // 未挂接到周期

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var unknownErr *UnknownMetricError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("错误 = %v, 期望 UnknownMetricError", err)
	}
	if unknownErr.MetricID != "m-attendance" {
		t.Errorf("MetricID = %s, 期望 m-attendance", unknownErr.MetricID)
	}
}

func TestBulkSubmitUnknownMetricBeforeMissing(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	// 同时缺失 m-teamwork 且含未挂接指标：未挂接指标优先报出
	req := &dto.BulkSubmitRequest{
		Ratings: []dto.MetricRatings{
			{Metric: "m-quality", Values: []dto.RatingEntry{
				{TargetUser: "u-alice", Value: 4},
				{TargetUser: "u-bob", Value: 5},
				{TargetUser: "u-carol", Value: 3},
			}},
			{Metric: "m-attendance", Values: []dto.RatingEntry{
				{TargetUser: "u-alice", Value: 2},
			}},
		},
	}

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var unknownErr *UnknownMetricError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("错误 = %v, 期望 UnknownMetricError 优先于 MissingMetricsError", err)
	}
}

func TestBulkSubmitMissingMetrics(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	req := fullSubmission()
	req.Ratings = req.Ratings[:1] // 只提交 m-quality

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var missingErr *MissingMetricsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("错误 = %v, 期望 MissingMetricsError", err)
	}
	if len(missingErr.MetricIDs) != 1 || missingErr.MetricIDs[0] != "m-teamwork" {
		t.Errorf("MetricIDs = %v, 期望 [m-teamwork]", missingErr.MetricIDs)
	}
	if len(repos.rating.ratings) != 0 {
		t.Errorf("校验失败不应落库任何评分")
	}
}

func TestBulkSubmitMissingMetricsSorted(t *testing.T) {
	svc, _ := setupTestReviewRepo3Metrics()

	req := &dto.BulkSubmitRequest{
		Ratings: []dto.MetricRatings{
			{Metric: "m-quality", Values: []dto.RatingEntry{
				{TargetUser: "u-alice", Value: 4},
				{TargetUser: "u-bob", Value: 5},
				{TargetUser: "u-carol", Value: 3},
			}},
		},
	}

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var missingErr *MissingMetricsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("错误 = %v, 期望 MissingMetricsError", err)
	}
	// 缺失集合稳定排序
	want := []string{"m-attendance", "m-teamwork"}
	if len(missingErr.MetricIDs) != len(want) {
		t.Fatalf("MetricIDs = %v, 期望 %v", missingErr.MetricIDs, want)
	}
	for i := range want {
		if missingErr.MetricIDs[i] != want[i] {
			t.Fatalf("MetricIDs = %v, 期望 %v", missingErr.MetricIDs, want)
		}
	}
}

// setupTestReviewRepo3Metrics 在标准种子上追加第三个指标
func setupTestReviewRepo3Metrics() (ReviewService, *testReviewRepos) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)
	mAttendance := model.Metric{MetricID: "m-attendance", Name: "出勤"}
	repos.metric.metrics["m-attendance"] = &mAttendance
	c := repos.cycle.cycles["cyc-1"]
	c.Metrics = append(c.Metrics, mAttendance)
	return svc, repos
}

func TestBulkSubmitMissingUsers(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	req := fullSubmission()
	// m-teamwork 块漏掉 bob 和 carol
	req.Ratings[1].Values = req.Ratings[1].Values[:1]

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var missingErr *MissingUsersError
	if !errors.As(err, &missingErr) {
		t.Fatalf("错误 = %v, 期望 MissingUsersError", err)
	}
	if missingErr.MetricID != "m-teamwork" {
		t.Errorf("MetricID = %s, 期望 m-teamwork", missingErr.MetricID)
	}
	want := []string{"u-bob", "u-carol"}
	if len(missingErr.UserIDs) != 2 || missingErr.UserIDs[0] != want[0] || missingErr.UserIDs[1] != want[1] {
		t.Errorf("UserIDs = %v, 期望 %v", missingErr.UserIDs, want)
	}
}

func TestBulkSubmitMissingSelf(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	// 漏掉自评同样视为不完整
	req := &dto.BulkSubmitRequest{
		Ratings: []dto.MetricRatings{
			{Metric: "m-quality", Values: []dto.RatingEntry{
				{TargetUser: "u-bob", Value: 5},
				{TargetUser: "u-carol", Value: 3},
			}},
			{Metric: "m-teamwork", Values: []dto.RatingEntry{
				{TargetUser: "u-alice", Value: 3},
				{TargetUser: "u-bob", Value: 4},
				{TargetUser: "u-carol", Value: 5},
			}},
		},
	}

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var missingErr *MissingUsersError
	if !errors.As(err, &missingErr) {
		t.Fatalf("错误 = %v, 期望 MissingUsersError", err)
	}
	if len(missingErr.UserIDs) != 1 || missingErr.UserIDs[0] != "u-alice" {
		t.Errorf("UserIDs = %v, 期望 [u-alice]", missingErr.UserIDs)
	}
}

func TestBulkSubmitUnknownTargetUser(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	req := fullSubmission()
	req.Ratings[0].Values = append(req.Ratings[0].Values, dto.RatingEntry{TargetUser: "u-dave", Value: 1})

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	var unknownErr *UnknownUserError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("错误 = %v, 期望 UnknownUserError", err)
	}
	if unknownErr.UserID != "u-dave" || unknownErr.MetricID != "m-quality" {
		t.Errorf("UnknownUserError = %+v", unknownErr)
	}
}

func TestBulkSubmitDuplicateTargetLastWins(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	req := fullSubmission()
	// 同一块内对 bob 评两次，后者覆盖前者
	req.Ratings[0].Values = append(req.Ratings[0].Values, dto.RatingEntry{TargetUser: "u-bob", Value: 2})

	resp, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", req)
	if err != nil {
		t.Fatalf("BulkSubmit 失败: %v", err)
	}
	if len(resp.Submitted) != 6 {
		t.Fatalf("回显条数 = %d, 期望 6（重复条目已合并）", len(resp.Submitted))
	}

	key := ratingKey{cycleID: "cyc-1", targetID: "u-bob", metricID: "m-quality", isSelf: false}
	if got := repos.rating.ratings[key].Value; got != 2 {
		t.Errorf("重复条目落库值 = %v, 期望后者 2", got)
	}
}

func TestBulkSubmitAtomicOnStorageFailure(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)
	repos.rating.failUpsert = errors.New("connection reset")

	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission())
	if err == nil {
		t.Fatal("期望存储失败向上返回")
	}
	// 整体中止：无评分落库，提交状态未定稿
	if len(repos.rating.ratings) != 0 {
		t.Errorf("存储失败后评分数 = %d, 期望 0", len(repos.rating.ratings))
	}
	if _, err := repos.submission.Get(context.Background(), "u-alice", "cyc-1"); err == nil {
		t.Error("存储失败后不应产生提交状态")
	}
}

func TestBulkSubmitFinalizeRaceLoser(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	// 模拟并发竞争：前置检查后、定稿前被对手抢先定稿
	now := repos.cycle.cycles["cyc-1"].StartDate
	_ = repos.submission.Finalize(context.Background(), "u-alice", "cyc-1", now)
	// 直接调用应命中前置检查
	_, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission())
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("错误 = %v, 期望 ErrAlreadyFinalized", err)
	}
}

func TestBulkSubmitUpsertIdempotent(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	if _, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-alice", fullSubmission()); err != nil {
		t.Fatalf("alice 提交失败: %v", err)
	}
	// bob 对相同被评人集合提交：互评分值按业务键覆盖，总行数不随提交人数线性增长
	if _, err := svc.BulkSubmit(context.Background(), "cyc-1", "u-bob", fullSubmission()); err != nil {
		t.Fatalf("bob 提交失败: %v", err)
	}

	// 2 指标 × 3 被评人 互评 6 行 + alice 自评 2 行 + bob 自评 2 行 = 10
	if len(repos.rating.ratings) != 10 {
		t.Fatalf("落库评分数 = %d, 期望 10", len(repos.rating.ratings))
	}
}

// ── SubmitNote ──

func TestSubmitNoteSuccess(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	resp, err := svc.SubmitNote(context.Background(), "cyc-1", "u-alice", &dto.SubmitNoteRequest{
		TargetUser: "u-bob",
		Note:       "会议上可以多给别人留发言空间",
	})
	if err != nil {
		t.Fatalf("SubmitNote 失败: %v", err)
	}
	if resp.TargetUser != "u-bob" {
		t.Errorf("TargetUser = %s, 期望 u-bob", resp.TargetUser)
	}
	if len(repos.note.notes) != 1 {
		t.Fatalf("短评数 = %d, 期望 1", len(repos.note.notes))
	}
}

func TestSubmitNoteTargetNotMember(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	_, err := svc.SubmitNote(context.Background(), "cyc-1", "u-alice", &dto.SubmitNoteRequest{
		TargetUser: "u-dave",
		Note:       "x",
	})
	var unknownErr *UnknownUserError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("错误 = %v, 期望 UnknownUserError", err)
	}
}

func TestSubmitNoteSubmitterNotMember(t *testing.T) {
	svc, repos := setupTestReviewService()
	seedReviewCycle(repos)

	_, err := svc.SubmitNote(context.Background(), "cyc-1", "u-dave", &dto.SubmitNoteRequest{
		TargetUser: "u-alice",
		Note:       "x",
	})
	if !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("错误 = %v, 期望 ErrNotGroupMember", err)
	}
}
