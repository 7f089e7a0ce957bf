package service

import (
	"context"
	"edulearn_backend/internal/model"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ── Mock UserStore ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	// beforeCreate 在写入前调用，返回非 nil 时 Create 失败
	beforeCreate func(user *model.User) error
}

func newMockUserRepo(users ...*model.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.beforeCreate != nil {
		if err := m.beforeCreate(user); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = model.NewID("user")
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindPendingTeachers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if u.Role == model.Teacher && !u.IsApproved {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) SetApproval(_ context.Context, id string, approved bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Role != model.Teacher {
		return nil, gorm.ErrRecordNotFound
	}
	u.IsApproved = approved
	return u, nil
}

// ── Mock SessionStore ──

type mockSessionRepo struct {
	byUser map[string]*model.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{byUser: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Upsert(_ context.Context, s *model.Session) error {
	m.byUser[s.UserID] = s
	return nil
}

func (m *mockSessionRepo) FindByToken(_ context.Context, token string) (*model.Session, error) {
	for _, s := range m.byUser {
		if s.SessionToken == token {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) DeleteByToken(_ context.Context, token string) error {
	for id, s := range m.byUser {
		if s.SessionToken == token {
			delete(m.byUser, id)
		}
	}
	return nil
}

// ── Mock PaperStore ──

type mockPaperRepo struct {
	papers    map[string]*model.Paper
	createErr error
}

func newMockPaperRepo(papers ...*model.Paper) *mockPaperRepo {
	m := &mockPaperRepo{papers: make(map[string]*model.Paper)}
	for _, p := range papers {
		m.papers[p.ID] = p
	}
	return m
}

func (m *mockPaperRepo) Create(_ context.Context, p *model.Paper) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.papers[p.ID] = p
	return nil
}

func (m *mockPaperRepo) FindByID(_ context.Context, id string) (*model.Paper, error) {
	if p, ok := m.papers[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaperRepo) List(_ context.Context, f model.PaperFilter, limit int) ([]model.Paper, error) {
	var out []model.Paper
	for _, p := range m.papers {
		if f.Subject != "" && p.Subject != f.Subject {
			continue
		}
		if f.ExamType != "" && p.ExamType != f.ExamType {
			continue
		}
		out = append(out, *p)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Mock GeneratedPaperStore ──

type mockDraftRepo struct {
	drafts  map[string]*model.GeneratedPaper
	markErr error
}

func newMockDraftRepo(drafts ...*model.GeneratedPaper) *mockDraftRepo {
	m := &mockDraftRepo{drafts: make(map[string]*model.GeneratedPaper)}
	for _, d := range drafts {
		m.drafts[d.ID] = d
	}
	return m
}

func (m *mockDraftRepo) Create(_ context.Context, d *model.GeneratedPaper) error {
	m.drafts[d.ID] = d
	return nil
}

func (m *mockDraftRepo) FindByID(_ context.Context, id string) (*model.GeneratedPaper, error) {
	if d, ok := m.drafts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDraftRepo) ListByCreator(_ context.Context, userID string, _ int) ([]model.GeneratedPaper, error) {
	var out []model.GeneratedPaper
	for _, d := range m.drafts {
		if d.CreatedBy == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDraftRepo) MarkPublished(_ context.Context, id, paperID string, at time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	d, ok := m.drafts[id]
	if !ok || d.IsPublished {
		return gorm.ErrRecordNotFound
	}
	d.IsPublished = true
	d.PublishedPaperID = &paperID
	d.PublishedAt = &at
	return nil
}

// ── Mock ResultStore ──

type mockResultRepo struct {
	mu      sync.Mutex
	results []model.TestResult
	listErr error
	lists   int
	// afterList 在 ListByStudent 读取完成后调用
	afterList func()
}

func newMockResultRepo(results ...model.TestResult) *mockResultRepo {
	return &mockResultRepo{results: results}
}

func (m *mockResultRepo) Create(_ context.Context, r *model.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, *r)
	return nil
}

func (m *mockResultRepo) FindByID(_ context.Context, id string) (*model.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID == id {
			r := m.results[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResultRepo) ListByStudent(_ context.Context, studentID string, limit int) ([]model.TestResult, error) {
	m.mu.Lock()
	m.lists++
	if m.listErr != nil {
		m.mu.Unlock()
		return nil, m.listErr
	}
	var out []model.TestResult
	for _, r := range m.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	afterList := m.afterList
	m.mu.Unlock()

	// 模拟查询返回后、写缓存之前发生的并发提交
	if afterList != nil {
		afterList()
	}
	return out, nil
}

// ── Mock ProgressCache ──

type mockProgressCache struct {
	gens        map[string]int64
	entries     map[string]*model.ProgressSummary
	getErr      error
	invalidated []string
}

func newMockProgressCache() *mockProgressCache {
	return &mockProgressCache{
		gens:    make(map[string]int64),
		entries: make(map[string]*model.ProgressSummary),
	}
}

func cacheEntryKey(studentID string, gen int64) string {
	return studentID + "#" + strconv.FormatInt(gen, 10)
}

func (m *mockProgressCache) Generation(_ context.Context, studentID string) (int64, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.gens[studentID], nil
}

func (m *mockProgressCache) Get(_ context.Context, studentID string, gen int64) (*model.ProgressSummary, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	s, ok := m.entries[cacheEntryKey(studentID, gen)]
	return s, ok, nil
}

func (m *mockProgressCache) Set(_ context.Context, studentID string, gen int64, s *model.ProgressSummary) error {
	m.entries[cacheEntryKey(studentID, gen)] = s
	return nil
}

func (m *mockProgressCache) Invalidate(_ context.Context, studentID string) error {
	m.gens[studentID]++
	m.invalidated = append(m.invalidated, studentID)
	return nil
}

// ── Mock NotificationStore ──

type mockNotificationRepo struct {
	items []*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock DoubtStore ──

type mockDoubtRepo struct {
	doubts map[string]*model.Doubt
}

func newMockDoubtRepo() *mockDoubtRepo {
	return &mockDoubtRepo{doubts: make(map[string]*model.Doubt)}
}

func (m *mockDoubtRepo) Create(_ context.Context, d *model.Doubt) error {
	m.doubts[d.ID] = d
	return nil
}

func (m *mockDoubtRepo) FindByID(_ context.Context, id string) (*model.Doubt, error) {
	if d, ok := m.doubts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDoubtRepo) List(_ context.Context, studentID, status string, _ int) ([]model.Doubt, error) {
	var out []model.Doubt
	for _, d := range m.doubts {
		if studentID != "" && d.StudentID != studentID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDoubtRepo) SaveAnswer(_ context.Context, d *model.Doubt) error {
	if _, ok := m.doubts[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *d
	m.doubts[d.ID] = &cp
	return nil
}

// ── helpers ──

var errStorage = errors.New("storage unavailable")

func newStudent(id string) *model.User {
	return &model.User{ID: id, Email: id + "@example.com", Name: "Student " + id, Role: model.Student, IsApproved: true}
}

func newTeacher(id string, approved bool) *model.User {
	return &model.User{ID: id, Email: id + "@example.com", Name: "Teacher " + id, Role: model.Teacher, IsApproved: approved}
}

func newAdmin(id string) *model.User {
	return &model.User{ID: id, Email: id + "@example.com", Name: "Admin", Role: model.Admin, IsApproved: true}
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
