package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"peer-review/backend/internal/model"
	apperrors "peer-review/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	// groupID → 有序成员 ID 列表（与 mockGroupRepo.members 保持一致）
	memberships map[string][]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:       make(map[string]*model.User),
		memberships: make(map[string][]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "u-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) ListByGroup(_ context.Context, groupID string) ([]model.User, error) {
	var result []model.User
	for _, id := range m.memberships[groupID] {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups  map[string]*model.Group
	members map[string][]string
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{
		groups:  make(map[string]*model.Group),
		members: make(map[string][]string),
	}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.GroupID == "" {
		group.GroupID = "g-" + group.Name
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string) error {
	delete(m.groups, id)
	delete(m.members, id)
	return nil
}

func (m *mockGroupRepo) ReplaceMembers(_ context.Context, groupID string, userIDs []string) error {
	m.members[groupID] = append([]string(nil), userIDs...)
	return nil
}

func (m *mockGroupRepo) ListMemberIDs(_ context.Context, groupID string) ([]string, error) {
	return m.members[groupID], nil
}

func (m *mockGroupRepo) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	for _, id := range m.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock MetricRepository ──

type mockMetricRepo struct {
	metrics map[string]*model.Metric
}

func newMockMetricRepo() *mockMetricRepo {
	return &mockMetricRepo{metrics: make(map[string]*model.Metric)}
}

func (m *mockMetricRepo) Create(_ context.Context, metric *model.Metric, _ []string) error {
	if metric.MetricID == "" {
		metric.MetricID = "m-" + metric.Name
	}
	m.metrics[metric.MetricID] = metric
	return nil
}

func (m *mockMetricRepo) GetByID(_ context.Context, id string) (*model.Metric, error) {
	if mt, ok := m.metrics[id]; ok {
		return mt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMetricRepo) List(_ context.Context) ([]model.Metric, error) {
	var result []model.Metric
	for _, mt := range m.metrics {
		result = append(result, *mt)
	}
	return result, nil
}

func (m *mockMetricRepo) ListByCycle(_ context.Context, _ string) ([]model.Metric, error) {
	return nil, nil
}

func (m *mockMetricRepo) ListByIDs(_ context.Context, ids []string) ([]model.Metric, error) {
	var result []model.Metric
	for _, id := range ids {
		if mt, ok := m.metrics[id]; ok {
			result = append(result, *mt)
		}
	}
	return result, nil
}

// ── Mock ReviewCycleRepository ──

type mockReviewCycleRepo struct {
	cycles map[string]*model.ReviewCycle
}

func newMockReviewCycleRepo() *mockReviewCycleRepo {
	return &mockReviewCycleRepo{cycles: make(map[string]*model.ReviewCycle)}
}

func (m *mockReviewCycleRepo) Create(_ context.Context, cycle *model.ReviewCycle, _ []string) error {
	if cycle.CycleID == "" {
		cycle.CycleID = "cyc-" + cycle.Name
	}
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockReviewCycleRepo) GetActiveByID(_ context.Context, id string) (*model.ReviewCycle, error) {
	if c, ok := m.cycles[id]; ok && c.IsActive {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewCycleRepo) GetByID(_ context.Context, id string) (*model.ReviewCycle, error) {
	if c, ok := m.cycles[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewCycleRepo) ListActive(_ context.Context, groupID string) ([]model.ReviewCycle, error) {
	var result []model.ReviewCycle
	for _, c := range m.cycles {
		if !c.IsActive {
			continue
		}
		if groupID != "" && c.GroupID != groupID {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

// ── Mock RatingRepository ──

// ratingKey 与数据库唯一约束同构的业务键
type ratingKey struct {
	cycleID  string
	targetID string
	metricID string
	isSelf   bool
}

type mockRatingRepo struct {
	ratings map[ratingKey]model.Rating
	// 注入存储失败；模拟事务语义：失败时不留任何写入
	failUpsert error
}

func newMockRatingRepo() *mockRatingRepo {
	return &mockRatingRepo{ratings: make(map[ratingKey]model.Rating)}
}

func (m *mockRatingRepo) UpsertSet(_ context.Context, ratings []model.Rating) error {
	if m.failUpsert != nil {
		return m.failUpsert
	}
	now := time.Now()
	for i := range ratings {
		key := ratingKey{
			cycleID:  ratings[i].ReviewCycleID,
			targetID: ratings[i].TargetUserID,
			metricID: ratings[i].MetricID,
			isSelf:   ratings[i].IsSelfReview,
		}
		r := ratings[i]
		if existing, ok := m.ratings[key]; ok {
			r.RatingID = existing.RatingID
			r.CreatedAt = existing.CreatedAt
		} else {
			r.RatingID = "r-" + key.targetID + "-" + key.metricID
			r.CreatedAt = now
		}
		r.UpdatedAt = now
		m.ratings[key] = r
	}
	return nil
}

func (m *mockRatingRepo) ListByCycle(_ context.Context, cycleID string) ([]model.Rating, error) {
	var result []model.Rating
	for key, r := range m.ratings {
		if key.cycleID == cycleID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock SubmissionStatusRepository ──

type mockSubmissionStatusRepo struct {
	statuses map[string]*model.SubmissionStatus // "userID:cycleID"
}

func newMockSubmissionStatusRepo() *mockSubmissionStatusRepo {
	return &mockSubmissionStatusRepo{statuses: make(map[string]*model.SubmissionStatus)}
}

func statusKey(userID, cycleID string) string {
	return userID + ":" + cycleID
}

func (m *mockSubmissionStatusRepo) Get(_ context.Context, userID, cycleID string) (*model.SubmissionStatus, error) {
	if s, ok := m.statuses[statusKey(userID, cycleID)]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// Finalize 复刻真实实现的条件置位语义：已定稿行再次定稿即失败
func (m *mockSubmissionStatusRepo) Finalize(_ context.Context, userID, cycleID string, at time.Time) error {
	key := statusKey(userID, cycleID)
	if existing, ok := m.statuses[key]; ok && existing.Finalized {
		return apperrors.ErrSubmissionFinalized
	}
	m.statuses[key] = &model.SubmissionStatus{
		StatusID:      "st-" + key,
		UserID:        userID,
		ReviewCycleID: cycleID,
		Finalized:     true,
		FinalizedAt:   &at,
	}
	return nil
}

// ── Mock WeaknessNoteRepository ──

type mockWeaknessNoteRepo struct {
	notes []model.WeaknessNote
}

func newMockWeaknessNoteRepo() *mockWeaknessNoteRepo {
	return &mockWeaknessNoteRepo{}
}

func (m *mockWeaknessNoteRepo) Create(_ context.Context, note *model.WeaknessNote) error {
	if note.NoteID == "" {
		note.NoteID = "n-" + note.TargetUserID
	}
	note.CreatedAt = time.Now()
	m.notes = append(m.notes, *note)
	return nil
}

func (m *mockWeaknessNoteRepo) ListByCycleTarget(_ context.Context, cycleID, targetUserID string) ([]model.WeaknessNote, error) {
	var result []model.WeaknessNote
	for _, n := range m.notes {
		if n.ReviewCycleID == cycleID && n.TargetUserID == targetUserID {
			result = append(result, n)
		}
	}
	return result, nil
}
