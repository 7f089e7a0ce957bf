package controller

import (
	"bytes"
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memPapers struct{ papers map[string]*model.Paper }

func (m *memPapers) Create(_ context.Context, p *model.Paper) error {
	m.papers[p.ID] = p
	return nil
}

func (m *memPapers) FindByID(_ context.Context, id string) (*model.Paper, error) {
	if p, ok := m.papers[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPapers) List(_ context.Context, filter model.PaperFilter, _ int) ([]model.Paper, error) {
	var out []model.Paper
	for _, p := range m.papers {
		if filter.Subject != "" && p.Subject != filter.Subject {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memDrafts struct {
	drafts   map[string]*model.GeneratedPaper
	markFail error
}

func (m *memDrafts) Create(_ context.Context, d *model.GeneratedPaper) error {
	m.drafts[d.ID] = d
	return nil
}

func (m *memDrafts) FindByID(_ context.Context, id string) (*model.GeneratedPaper, error) {
	if d, ok := m.drafts[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memDrafts) ListByCreator(_ context.Context, userID string, _ int) ([]model.GeneratedPaper, error) {
	var out []model.GeneratedPaper
	for _, d := range m.drafts {
		if d.CreatedBy == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDrafts) MarkPublished(_ context.Context, id, paperID string, at time.Time) error {
	if m.markFail != nil {
		return m.markFail
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

type memResults struct{ results []model.TestResult }

func (m *memResults) Create(_ context.Context, r *model.TestResult) error {
	m.results = append(m.results, *r)
	return nil
}

func (m *memResults) FindByID(_ context.Context, id string) (*model.TestResult, error) {
	for i := range m.results {
		if m.results[i].ID == id {
			return &m.results[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memResults) ListByStudent(_ context.Context, studentID string, _ int) ([]model.TestResult, error) {
	var out []model.TestResult
	for _, r := range m.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

var (
	student  = &model.User{ID: "s1", Role: model.Student, IsApproved: true}
	teacher  = &model.User{ID: "t1", Role: model.Teacher, IsApproved: true}
	outsider = &model.User{ID: "t2", Role: model.Teacher, IsApproved: true}
)

// asUser 代替认证中间件直接注入当前用户
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			util.SetUserInContext(c, user)
		}
		c.Next()
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func send(t *testing.T, r *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func draftFixture() *model.GeneratedPaper {
	return &model.GeneratedPaper{
		ID:        "gen_1",
		CreatedBy: teacher.ID,
		Title:     "Draft",
		Subject:   "Physics",
		ExamType:  "JEE",
		Questions: datatypes.NewJSONSlice([]model.Question{{QuestionID: "q1", QuestionText: "?", CorrectAnswer: "A"}}),
	}
}

func publishPayload() gin.H {
	return gin.H{
		"title":     "Mechanics Mock",
		"subject":   "Physics",
		"exam_type": "JEE",
		"questions": []gin.H{
			{"question_text": "2+2?", "options": gin.H{"A": "4", "B": "5"}, "correct_answer": "A"},
		},
	}
}

func publishRouter(user *model.User, drafts *memDrafts, papers *memPapers) *gin.Engine {
	svc := service.NewGeneratedPaperService(drafts, papers)
	ctrl := NewGeneratedPaperController(svc)
	r := gin.New()
	r.POST("/generated-papers/:id/publish", asUser(user), ctrl.PublishDraft)
	return r
}

func TestPublishDraft(t *testing.T) {
	drafts := &memDrafts{drafts: map[string]*model.GeneratedPaper{"gen_1": draftFixture()}}
	papers := &memPapers{papers: map[string]*model.Paper{}}
	r := publishRouter(teacher, drafts, papers)

	code, env := send(t, r, http.MethodPost, "/generated-papers/gen_1/publish", publishPayload())
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", code, env.Message)
	}
	var data struct {
		Message string `json:"message"`
		PaperID string `json:"paper_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Message != "Paper published successfully" || data.PaperID == "" {
		t.Fatalf("unexpected data %+v", data)
	}
	if _, ok := papers.papers[data.PaperID]; !ok {
		t.Fatal("published paper not stored")
	}
	if !drafts.drafts["gen_1"].IsPublished {
		t.Fatal("draft not marked published")
	}

	// 再次发布
	code, _ = send(t, r, http.MethodPost, "/generated-papers/gen_1/publish", publishPayload())
	if code != http.StatusConflict {
		t.Fatalf("republish status = %d, want 409", code)
	}
	if len(papers.papers) != 1 {
		t.Fatalf("papers = %d, want 1", len(papers.papers))
	}
}

func TestPublishDraftStatusMapping(t *testing.T) {
	missingQuestions := publishPayload()
	delete(missingQuestions, "questions")

	tests := []struct {
		name string
		user *model.User
		id   string
		body interface{}
		want int
	}{
		{"unauthenticated", nil, "gen_1", publishPayload(), http.StatusUnauthorized},
		{"student", student, "gen_1", publishPayload(), http.StatusForbidden},
		{"other teacher", outsider, "gen_1", publishPayload(), http.StatusForbidden},
		{"unknown draft", teacher, "gen_404", publishPayload(), http.StatusNotFound},
		{"missing questions", teacher, "gen_1", missingQuestions, http.StatusBadRequest},
		{"malformed json", teacher, "gen_1", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := &memDrafts{drafts: map[string]*model.GeneratedPaper{"gen_1": draftFixture()}}
			papers := &memPapers{papers: map[string]*model.Paper{}}
			code, env := send(t, publishRouter(tt.user, drafts, papers), http.MethodPost, "/generated-papers/"+tt.id+"/publish", tt.body)
			if code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", code, tt.want, env.Message)
			}
			if len(papers.papers) != 0 {
				t.Fatal("paper must not be created on failure")
			}
		})
	}
}

// 非本人草稿无论请求体内容如何都返回 403
func TestPublishDraftOwnershipBeforeBody(t *testing.T) {
	badOptions := publishPayload()
	badOptions["questions"] = []gin.H{{"question_text": "2+2?", "options": gin.H{"A": 4}, "correct_answer": "A"}}
	bodies := map[string]interface{}{
		"questions string": `{"title":"x","subject":"s","exam_type":"e","questions":"oops"}`,
		"option number":    badOptions,
		"malformed":        "{",
		"empty":            nil,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			drafts := &memDrafts{drafts: map[string]*model.GeneratedPaper{"gen_1": draftFixture()}}
			papers := &memPapers{papers: map[string]*model.Paper{}}
			code, env := send(t, publishRouter(outsider, drafts, papers), http.MethodPost, "/generated-papers/gen_1/publish", body)
			if code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403 (%s)", code, env.Message)
			}
			if len(papers.papers) != 0 || drafts.drafts["gen_1"].IsPublished {
				t.Fatal("state must not change")
			}
		})
	}
}

func TestPublishDraftTypeErrorNamesField(t *testing.T) {
	badOptions := publishPayload()
	badOptions["questions"] = []gin.H{{"question_text": "2+2?", "options": gin.H{"A": 4}, "correct_answer": "A"}}
	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{"questions string", `{"title":"x","subject":"s","exam_type":"e","questions":"oops"}`, "questions"},
		{"option number", badOptions, "options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := &memDrafts{drafts: map[string]*model.GeneratedPaper{"gen_1": draftFixture()}}
			papers := &memPapers{papers: map[string]*model.Paper{}}
			code, env := send(t, publishRouter(teacher, drafts, papers), http.MethodPost, "/generated-papers/gen_1/publish", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", code, env.Message)
			}
			if !strings.Contains(env.Message, tt.field) {
				t.Fatalf("message %q does not name %s", env.Message, tt.field)
			}
			if len(papers.papers) != 0 || drafts.drafts["gen_1"].IsPublished {
				t.Fatal("state must not change")
			}
		})
	}
}

func TestPublishDraftPartialFailure(t *testing.T) {
	drafts := &memDrafts{
		drafts:   map[string]*model.GeneratedPaper{"gen_1": draftFixture()},
		markFail: errors.New("connection reset"),
	}
	papers := &memPapers{papers: map[string]*model.Paper{}}

	code, env := send(t, publishRouter(teacher, drafts, papers), http.MethodPost, "/generated-papers/gen_1/publish", publishPayload())
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	var data struct {
		ResourceID string `json:"resource_id"`
		Retryable  bool   `json:"retryable"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if _, ok := papers.papers[data.ResourceID]; !ok {
		t.Fatalf("resource_id %q does not name the created paper", data.ResourceID)
	}
	if data.Retryable {
		t.Fatal("partial failure must not be retryable")
	}
}

func TestSubmitTestAndReadBack(t *testing.T) {
	papers := &memPapers{papers: map[string]*model.Paper{
		"paper_1": {
			ID:       "paper_1",
			Title:    "Mock",
			Subject:  "Physics",
			ExamType: "JEE",
			Questions: datatypes.NewJSONSlice([]model.Question{
				{QuestionID: "q1", CorrectAnswer: "A"},
				{QuestionID: "q2", CorrectAnswer: "B"},
				{QuestionID: "q3", CorrectAnswer: "C"},
			}),
		},
	}}
	results := &memResults{}
	ctrl := NewTestController(service.NewTestService(papers, results, nil))

	r := gin.New()
	r.Use(asUser(student))
	r.POST("/tests/submit", ctrl.SubmitTest)
	r.GET("/tests/results", ctrl.ListResults)

	code, env := send(t, r, http.MethodPost, "/tests/submit", gin.H{
		"paper_id":   "paper_1",
		"answers":    gin.H{"q1": "A", "q2": "C"},
		"time_taken": 120,
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", code, env.Message)
	}
	var result model.TestResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Score != 3 || result.CorrectAnswers != 1 || result.WrongAnswers != 1 || result.Unattempted != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	code, env = send(t, r, http.MethodGet, "/tests/results", nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	var list []model.TestResult
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != result.ID {
		t.Fatalf("list = %+v", list)
	}

	code, _ = send(t, r, http.MethodPost, "/tests/submit", gin.H{"paper_id": "missing"})
	if code != http.StatusNotFound {
		t.Fatalf("unknown paper status = %d, want 404", code)
	}
}

func TestListPapersFilter(t *testing.T) {
	papers := &memPapers{papers: map[string]*model.Paper{
		"p1": {ID: "p1", Subject: "Physics"},
		"p2": {ID: "p2", Subject: "Chemistry"},
	}}
	ctrl := NewPaperController(service.NewPaperService(papers))
	r := gin.New()
	r.GET("/papers", ctrl.ListPapers)
	r.GET("/papers/:id", ctrl.GetPaper)

	code, env := send(t, r, http.MethodGet, "/papers?subject=Physics", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var list []model.Paper
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != "p1" {
		t.Fatalf("list = %+v", list)
	}

	if code, _ := send(t, r, http.MethodGet, "/papers/nope", nil); code != http.StatusNotFound {
		t.Fatalf("missing paper status = %d, want 404", code)
	}
}
